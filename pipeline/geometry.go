// Package pipeline binds meshes and materials to GPU state and orders the
// shadow and camera passes of a frame.
package pipeline

import (
	"fmt"

	"shadow-renderer/gpu"
	"shadow-renderer/scene"
	"shadow-renderer/shader"
)

type vertexArray struct {
	name       string
	buffer     gpu.Buffer
	components int
}

// GeometryBuffer is a mesh uploaded to GPU buffers. Only present attribute
// arrays are uploaded. It is immutable after Upload.
type GeometryBuffer struct {
	dev     gpu.Device
	arrays  []vertexArray
	indices gpu.Buffer
	count   int
}

// Upload validates mesh and copies its arrays and indices to the GPU.
func Upload(dev gpu.Device, mesh *scene.Mesh) (*GeometryBuffer, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q has no indices", mesh.Name)
	}

	g := &GeometryBuffer{dev: dev, count: len(mesh.Indices)}
	if mesh.HasPositions() {
		g.arrays = append(g.arrays, vertexArray{scene.PositionAttribute, dev.NewVertexBuffer(mesh.Positions), 3})
	}
	if mesh.HasNormals() {
		g.arrays = append(g.arrays, vertexArray{scene.NormalAttribute, dev.NewVertexBuffer(mesh.Normals), 3})
	}
	if mesh.HasTexcoords() {
		g.arrays = append(g.arrays, vertexArray{scene.TexcoordAttribute, dev.NewVertexBuffer(mesh.Texcoords), 2})
	}
	g.indices = dev.NewIndexBuffer(mesh.Indices)
	return g, nil
}

// Count is the number of indices drawn per call.
func (g *GeometryBuffer) Count() int { return g.count }

// Attributes returns the names of the uploaded arrays.
func (g *GeometryBuffer) Attributes() []string {
	names := make([]string, len(g.arrays))
	for i, a := range g.arrays {
		names[i] = a.name
	}
	return names
}

// bind describes every uploaded array at the program's location for its
// name and binds the index buffer. Arrays the program does not read are
// skipped.
func (g *GeometryBuffer) bind(p *shader.Program) {
	for _, a := range g.arrays {
		loc := p.Attrib(a.name)
		if !loc.Valid() {
			continue
		}
		g.dev.BindAttribute(loc, a.buffer, a.components)
	}
	g.dev.BindIndexBuffer(g.indices)
}

// Release deletes the GPU buffers.
func (g *GeometryBuffer) Release() {
	for _, a := range g.arrays {
		g.dev.DeleteBuffer(a.buffer)
	}
	g.arrays = nil
	if g.indices != 0 {
		g.dev.DeleteBuffer(g.indices)
		g.indices = 0
	}
}
