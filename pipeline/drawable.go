package pipeline

import (
	"fmt"

	"shadow-renderer/gpu"
	"shadow-renderer/material"
	"shadow-renderer/math"
	"shadow-renderer/scene"
	"shadow-renderer/shader"
)

// Camera supplies the view-dependent uniforms of a draw.
type Camera interface {
	GetWorldMatrix() math.Mat4
	GetProjectionMatrix() math.Mat4
	GetPosition() math.Vec3
}

// Drawable is a mesh uploaded to the GPU together with its material and the
// program compiled for both.
type Drawable struct {
	Mesh     *scene.Mesh
	Material *material.Material

	dev      gpu.Device
	geometry *GeometryBuffer
	program  *shader.Program
}

// NewDrawable uploads mesh, registers its attributes on mat and compiles
// mat's program. mat must not have been compiled before.
func NewDrawable(dev gpu.Device, mesh *scene.Mesh, mat *material.Material) (*Drawable, error) {
	geom, err := Upload(dev, mesh)
	if err != nil {
		return nil, fmt.Errorf("upload mesh %q: %w", mesh.Name, err)
	}
	if err := mat.RegisterExtraAttributes(geom.Attributes()...); err != nil {
		geom.Release()
		return nil, err
	}
	prog, err := mat.BuildShaderProgram(dev)
	if err != nil {
		geom.Release()
		return nil, err
	}
	return &Drawable{
		Mesh:     mesh,
		Material: mat,
		dev:      dev,
		geometry: geom,
		program:  prog,
	}, nil
}

// Program returns the compiled program.
func (d *Drawable) Program() *shader.Program { return d.program }

// Count is the number of indices each Draw submits.
func (d *Drawable) Count() int { return d.geometry.Count() }

// Draw binds the material's render target, the program, the geometry, the
// camera uniforms and the material uniforms, then issues one indexed draw.
func (d *Drawable) Draw(cam Camera) {
	d.bindTarget()
	d.program.Use()
	d.geometry.bind(d.program)
	d.bindCamera(cam)
	d.bindMaterial()
	d.dev.DrawTriangles(d.geometry.Count())
}

// SetLightPosition uploads the light position uniform. It stays set on the
// program for subsequent draws.
func (d *Drawable) SetLightPosition(pos math.Vec3) {
	d.program.Use()
	if loc := d.program.Uniform(material.LightPosition); loc.Valid() {
		d.dev.Uniform3f(loc, pos)
	}
}

func (d *Drawable) bindTarget() {
	if t := d.Material.Target; t != nil {
		d.dev.BindFramebuffer(t.Framebuffer)
		d.dev.Viewport(0, 0, t.Size, t.Size)
		return
	}
	d.dev.BindFramebuffer(gpu.DefaultFramebuffer)
	w, h := d.dev.DisplaySize()
	d.dev.Viewport(0, 0, w, h)
}

func (d *Drawable) bindCamera(cam Camera) {
	d.uploadMatrix(material.ModelMatrix, d.Mesh.Transform.GetMatrix())
	d.uploadMatrix(material.ViewMatrix, cam.GetWorldMatrix().Inverse())
	d.uploadMatrix(material.ProjectionMatrix, cam.GetProjectionMatrix())
	if loc := d.program.Uniform(material.CameraPosition); loc.Valid() {
		d.dev.Uniform3f(loc, cam.GetPosition())
	}
}

func (d *Drawable) uploadMatrix(name string, m math.Mat4) {
	if loc := d.program.Uniform(name); loc.Valid() {
		d.dev.UniformMatrix4(loc, m)
	}
}

// bindMaterial uploads every declared uniform in declaration order. Texture
// uniforms take units 0, 1, ... in that order whether or not the program
// reads them, so sampler assignments stay stable across programs.
func (d *Drawable) bindMaterial() {
	unit := 0
	for _, u := range d.Material.Uniforms() {
		loc := d.program.Uniform(u.Name)
		switch v := u.Value.(type) {
		case material.Texture:
			d.dev.BindTexture(unit, gpu.Texture(v))
			if loc.Valid() {
				d.dev.Uniform1i(loc, int32(unit))
			}
			unit++
		case material.Scalar:
			if loc.Valid() {
				d.dev.Uniform1f(loc, float32(v))
			}
		case material.Vec3:
			if loc.Valid() {
				d.dev.Uniform3f(loc, math.Vec3(v))
			}
		case material.Int:
			if loc.Valid() {
				d.dev.Uniform1i(loc, int32(v))
			}
		case material.Matrix4:
			if loc.Valid() {
				d.dev.UniformMatrix4(loc, math.Mat4(v))
			}
		default:
			panic(fmt.Sprintf("pipeline: unhandled uniform value %T for %q", v, u.Name))
		}
	}
}

// Release frees the program and the geometry buffers.
func (d *Drawable) Release() {
	d.program.Release()
	d.geometry.Release()
}
