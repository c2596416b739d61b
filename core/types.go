package core

import (
	"shadow-renderer/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// RGB drops alpha.
func (c Color) RGB() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Transform is the translate + scale placement of a mesh. There is no
// rotation: scenes only position and size their models.
type Transform struct {
	Translate math.Vec3
	Scale     math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Translate: math.Vec3Zero,
		Scale:     math.Vec3One,
	}
}

// GetMatrix returns the model matrix: scale, then translate.
func (t Transform) GetMatrix() math.Mat4 {
	return math.Mat4TranslateScale(t.Translate, t.Scale)
}
