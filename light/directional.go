// Package light implements the single directional shadow-casting light.
package light

import (
	"fmt"

	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/material"
	"shadow-renderer/math"
	"shadow-renderer/scene"
	"shadow-renderer/shader"
)

// Frustum is the orthographic box the shadow map covers, in light view
// space.
type Frustum struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// DefaultFrustum covers ±100 units, which is enough for the sample scenes.
// It does not adapt to the scene bounds.
var DefaultFrustum = Frustum{Left: -100, Right: 100, Bottom: -100, Top: 100, Near: 0.01, Far: 100}

// ProxyScale is the scale of the cube drawn at the light position.
var ProxyScale = math.NewVec3(0.2, 0.2, 0.2)

// Options configures NewDirectional.
type Options struct {
	Intensity   float32
	Color       math.Vec3
	Position    math.Vec3
	FocalPoint  math.Vec3
	Up          math.Vec3
	CastsShadow bool
	// ShadowResolution is the edge length of the square shadow map.
	ShadowResolution int
	// Frustum defaults to DefaultFrustum when zero.
	Frustum Frustum
}

// Directional is a light looking from Position at FocalPoint. It owns a
// proxy cube drawn with an emissive material and the shadow render target.
type Directional struct {
	Position    math.Vec3
	FocalPoint  math.Vec3
	Up          math.Vec3
	CastsShadow bool
	Frustum     Frustum

	Mesh     *scene.Mesh
	Material *material.Emissive

	dev    gpu.Device
	target *gpu.RenderTarget
}

// NewDirectional creates the light and its shadow render target. src is the
// proxy cube's shader pair.
func NewDirectional(dev gpu.Device, opts Options, src shader.Pair) (*Directional, error) {
	if opts.ShadowResolution <= 0 {
		return nil, fmt.Errorf("light: invalid shadow resolution %d", opts.ShadowResolution)
	}
	if opts.Frustum == (Frustum{}) {
		opts.Frustum = DefaultFrustum
	}
	target, err := dev.NewRenderTarget(opts.ShadowResolution)
	if err != nil {
		return nil, fmt.Errorf("light shadow target: %w", err)
	}
	return &Directional{
		Position:    opts.Position,
		FocalPoint:  opts.FocalPoint,
		Up:          opts.Up,
		CastsShadow: opts.CastsShadow,
		Frustum:     opts.Frustum,
		Mesh:        scene.Cube(core.Transform{Translate: math.Vec3Zero, Scale: ProxyScale}),
		Material:    material.NewEmissive(opts.Intensity, opts.Color, src),
		dev:         dev,
		target:      target,
	}, nil
}

// View is the light's look-at matrix.
func (l *Directional) View() math.Mat4 {
	return math.Mat4LookAt(l.Position, l.FocalPoint, l.Up)
}

// Projection is the orthographic projection of Frustum.
func (l *Directional) Projection() math.Mat4 {
	f := l.Frustum
	return math.Mat4Orthographic(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
}

// LightSpaceMVP is projection · view · model for a mesh placed by translate
// and scale, a pure function of the light pose and its arguments.
func (l *Directional) LightSpaceMVP(translate, scale math.Vec3) math.Mat4 {
	model := math.Mat4TranslateScale(translate, scale)
	return model.Mul(l.View()).Mul(l.Projection())
}

func (l *Directional) ShadowTarget() *gpu.RenderTarget { return l.target }

func (l *Directional) EffectiveIntensity() math.Vec3 {
	return l.Material.EffectiveIntensity()
}

// Release frees the shadow render target.
func (l *Directional) Release() {
	if l.target != nil {
		l.dev.DeleteRenderTarget(l.target)
		l.target = nil
	}
}

var _ material.LightSource = (*Directional)(nil)
