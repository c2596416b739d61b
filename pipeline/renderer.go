package pipeline

import (
	"errors"
	"fmt"

	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/light"
)

// ErrLightRegistered is returned when a light is added to the same renderer
// twice.
var ErrLightRegistered = errors.New("scene renderer: light already registered")

// ErrInvariantViolation is wrapped by InvariantViolation.
var ErrInvariantViolation = errors.New("invariant violation")

// InvariantViolation is returned by Render when the number of registered
// lights is not exactly one. The frame is not drawn.
type InvariantViolation struct {
	Lights int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("scene renderer needs exactly one light, have %d", e.Lights)
}

func (e *InvariantViolation) Unwrap() error { return ErrInvariantViolation }

type lightEntry struct {
	light *light.Directional
	proxy *Drawable
}

// SceneRenderer draws the registered drawables once per frame: the light's
// proxy and shadow pass first, then the camera pass that samples the shadow
// map.
type SceneRenderer struct {
	dev     gpu.Device
	lights  []lightEntry
	meshes  []*Drawable
	shadows []*Drawable
}

func NewSceneRenderer(dev gpu.Device) *SceneRenderer {
	return &SceneRenderer{dev: dev}
}

// AddLight registers l and builds the drawable for its proxy cube. Each
// renderer compiles its own copy of the proxy material, so one light may be
// shared between renderers.
func (r *SceneRenderer) AddLight(l *light.Directional) error {
	for _, e := range r.lights {
		if e.light == l {
			return ErrLightRegistered
		}
	}
	proxy, err := NewDrawable(r.dev, l.Mesh, l.Material.Copy())
	if err != nil {
		return fmt.Errorf("light proxy: %w", err)
	}
	r.lights = append(r.lights, lightEntry{light: l, proxy: proxy})
	return nil
}

// AddDrawable registers a drawable for the camera pass.
func (r *SceneRenderer) AddDrawable(d *Drawable) {
	r.meshes = append(r.meshes, d)
}

// AddShadowDrawable registers a drawable for the shadow pass. Its material
// should target the light's shadow render target.
func (r *SceneRenderer) AddShadowDrawable(d *Drawable) {
	r.shadows = append(r.shadows, d)
}

// Render draws one frame from cam.
func (r *SceneRenderer) Render(cam Camera) error {
	if len(r.lights) != 1 {
		return &InvariantViolation{Lights: len(r.lights)}
	}

	r.dev.SetDepthTest(true)
	r.dev.BindFramebuffer(gpu.DefaultFramebuffer)
	w, h := r.dev.DisplaySize()
	r.dev.Viewport(0, 0, w, h)
	r.dev.Clear(gpu.ClearColor|gpu.ClearDepth, core.ColorBlack, 1)

	for _, e := range r.lights {
		l := e.light

		// White reads as unoccluded, so texels the shadow pass never
		// touches do not darken the scene.
		r.dev.BindFramebuffer(l.ShadowTarget().Framebuffer)
		r.dev.Clear(gpu.ClearColor|gpu.ClearDepth, core.ColorWhite, 1)

		e.proxy.Mesh.Transform.Translate = l.Position
		e.proxy.Draw(cam)

		if l.CastsShadow {
			for _, d := range r.shadows {
				d.Draw(cam)
			}
		}

		for _, d := range r.meshes {
			d.SetLightPosition(l.Position)
			d.Draw(cam)
		}
	}
	return nil
}

// Release frees every registered drawable and light proxy. Lights
// themselves are owned by the caller.
func (r *SceneRenderer) Release() {
	for _, d := range r.meshes {
		d.Release()
	}
	for _, d := range r.shadows {
		d.Release()
	}
	for _, e := range r.lights {
		e.proxy.Release()
	}
	r.meshes, r.shadows, r.lights = nil, nil, nil
}
