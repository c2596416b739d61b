package light

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadow-renderer/gpu"
	"shadow-renderer/gpu/gputest"
	"shadow-renderer/material"
	"shadow-renderer/math"
	"shadow-renderer/shader"
)

func testOptions() Options {
	return Options{
		Intensity:        2,
		Color:            math.NewVec3(1, 0.5, 1),
		Position:         math.NewVec3(0, 80, 80),
		FocalPoint:       math.Vec3Zero,
		Up:               math.Vec3Up,
		CastsShadow:      true,
		ShadowResolution: 2048,
	}
}

func TestNewDirectional(t *testing.T) {
	dev := gputest.New()
	l, err := NewDirectional(dev, testOptions(), shader.Pair{})
	require.NoError(t, err)

	rt := l.ShadowTarget()
	require.NotNil(t, rt)
	assert.Equal(t, 2048, rt.Size)
	assert.Equal(t, DefaultFrustum, l.Frustum)
	assert.Equal(t, ProxyScale, l.Mesh.Transform.Scale)
	assert.Equal(t, 24, l.Mesh.VertexCount())
	assert.Equal(t, math.NewVec3(2, 1, 2), l.EffectiveIntensity())

	l.Release()
	l.Release()
	assert.Len(t, dev.Calls, 2)
	assert.Equal(t, "DeleteRenderTarget", dev.Calls[1].Op)
}

func TestNewDirectionalErrors(t *testing.T) {
	dev := gputest.New()
	dev.RenderTargetFailure = "incomplete"
	_, err := NewDirectional(dev, testOptions(), shader.Pair{})
	var re *gpu.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "framebuffer", re.Resource)

	opts := testOptions()
	opts.ShadowResolution = 0
	_, err = NewDirectional(gputest.New(), opts, shader.Pair{})
	assert.Error(t, err)
}

func TestLightSpaceMVPIsPure(t *testing.T) {
	l, err := NewDirectional(gputest.New(), testOptions(), shader.Pair{})
	require.NoError(t, err)

	tr, sc := math.NewVec3(1, 2, 3), math.NewVec3(4, 5, 6)
	a := l.LightSpaceMVP(tr, sc)
	b := l.LightSpaceMVP(tr, sc)
	assert.Equal(t, a, b)
}

func TestLightSpaceMVPMatchesMgl(t *testing.T) {
	l, err := NewDirectional(gputest.New(), testOptions(), shader.Pair{})
	require.NoError(t, err)

	tr, sc := math.NewVec3(10, 0, -5), math.NewVec3(2, 2, 2)
	want := mgl32.Ortho(-100, 100, -100, 100, 0.01, 100).
		Mul4(mgl32.LookAtV(l.Position.ToMgl(), l.FocalPoint.ToMgl(), l.Up.ToMgl())).
		Mul4(mgl32.Translate3D(10, 0, -5)).
		Mul4(mgl32.Scale3D(2, 2, 2))
	got := l.LightSpaceMVP(tr, sc).ToMgl()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}

func TestFrustumIsConfigurable(t *testing.T) {
	opts := testOptions()
	opts.Frustum = Frustum{Left: -10, Right: 10, Bottom: -10, Top: 10, Near: 1, Far: 50}
	l, err := NewDirectional(gputest.New(), opts, shader.Pair{})
	require.NoError(t, err)

	want := mgl32.Ortho(-10, 10, -10, 10, 1, 50)
	got := l.Projection().ToMgl()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5)
	}
}

func TestEmissiveProxyMaterial(t *testing.T) {
	l, err := NewDirectional(gputest.New(), testOptions(), shader.Pair{})
	require.NoError(t, err)

	v, ok := l.Material.Uniform("uLigIntensity")
	require.True(t, ok)
	assert.Equal(t, material.Scalar(2), v)
	assert.Nil(t, l.Material.Target)
}
