package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shadow-renderer/math"
)

func TestTransformMatrix(t *testing.T) {
	tr := Transform{Translate: math.NewVec3(1, 2, 3), Scale: math.NewVec3(2, 2, 2)}
	m := tr.GetMatrix()

	assert.Equal(t, tr.Translate, m.MulVec3(math.Vec3Zero))
	assert.Equal(t, math.NewVec3(3, 2, 3), m.MulVec3(math.Vec3Right))
}

func TestNewTransformIsIdentity(t *testing.T) {
	assert.Equal(t, math.Mat4Identity(), NewTransform().GetMatrix())
}

func TestColorRGB(t *testing.T) {
	assert.Equal(t, math.NewVec3(0.1, 0.2, 0.3), Color{R: 0.1, G: 0.2, B: 0.3, A: 1}.RGB())
}
