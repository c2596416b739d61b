package material

import (
	"context"
	"errors"
	"fmt"

	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/math"
	"shadow-renderer/shader"
)

// BuildError reports a material whose shader source could not be fetched.
type BuildError struct {
	Material string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build material %q: %v", e.Material, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Paths names the two shader stages inside a shader.Source.
type Paths struct {
	Vertex   string
	Fragment string
}

// Pending is a material whose uniforms are fixed but whose shader source is
// still being fetched. Resolve blocks until the fetch finishes.
type Pending struct {
	done chan struct{}
	mat  *Material
	err  error
}

// request computes the uniforms immediately, then fetches the source in the
// background. Light state is therefore captured at request time.
func request(ctx context.Context, name string, uniforms []Uniform, target *gpu.RenderTarget, src shader.Source, paths Paths) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		pair, err := shader.FetchPair(ctx, src, paths.Vertex, paths.Fragment)
		if err != nil {
			p.err = &BuildError{Material: name, Err: err}
			return
		}
		p.mat = New(name, uniforms, pair, target)
	}()
	return p
}

// BuildPhong requests a Phong material; see NewPhong.
func BuildPhong(ctx context.Context, src shader.Source, paths Paths, color gpu.Texture, specular math.Vec3, light LightSource, t core.Transform) *Pending {
	return request(ctx, "phong", phongUniforms(color, specular, light, t), nil, src, paths)
}

// BuildShadow requests a shadow material; see NewShadow.
func BuildShadow(ctx context.Context, src shader.Source, paths Paths, light LightSource, t core.Transform) *Pending {
	return request(ctx, "shadow", shadowUniforms(light, t), light.ShadowTarget(), src, paths)
}

// Resolve waits for the fetch and returns the material. It may be called
// more than once and returns the same result each time.
func (p *Pending) Resolve() (*Material, error) {
	<-p.done
	return p.mat, p.err
}

// ResolveAll resolves every pending build and joins all failures.
func ResolveAll(pending ...*Pending) ([]*Material, error) {
	mats := make([]*Material, len(pending))
	var errs []error
	for i, p := range pending {
		m, err := p.Resolve()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mats[i] = m
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return mats, nil
}
