package scene

import (
	"fmt"

	"shadow-renderer/core"
)

// Vertex attribute names bound by every mesh. Shaders declare the ones they
// read; the rest resolve to invalid locations and are skipped.
const (
	PositionAttribute = "aVertexPosition"
	NormalAttribute   = "aNormalPosition"
	TexcoordAttribute = "aTextureCoord"
)

// Mesh holds CPU-side geometry: flat attribute arrays and a triangle index
// list. Nil arrays are absent. GPU upload is done by the pipeline package.
type Mesh struct {
	Name      string
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	Texcoords []float32 // 2 per vertex
	Indices   []uint32

	Transform core.Transform
}

func NewMesh(name string, positions, normals, texcoords []float32, indices []uint32, t core.Transform) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: positions,
		Normals:   normals,
		Texcoords: texcoords,
		Indices:   indices,
		Transform: t,
	}
}

func (m *Mesh) HasPositions() bool { return len(m.Positions) > 0 }
func (m *Mesh) HasNormals() bool   { return len(m.Normals) > 0 }
func (m *Mesh) HasTexcoords() bool { return len(m.Texcoords) > 0 }

// VertexCount is the number of vertices described by Positions.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// Attributes returns the names of the present arrays in binding order.
func (m *Mesh) Attributes() []string {
	var names []string
	if m.HasPositions() {
		names = append(names, PositionAttribute)
	}
	if m.HasNormals() {
		names = append(names, NormalAttribute)
	}
	if m.HasTexcoords() {
		names = append(names, TexcoordAttribute)
	}
	return names
}

// Validate checks that array lengths agree and every index is in range.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh %q: %d position floats is not a multiple of 3", m.Name, len(m.Positions))
	}
	n := m.VertexCount()
	if m.HasNormals() && len(m.Normals) != n*3 {
		return fmt.Errorf("mesh %q: %d normal floats for %d vertices", m.Name, len(m.Normals), n)
	}
	if m.HasTexcoords() && len(m.Texcoords) != n*2 {
		return fmt.Errorf("mesh %q: %d texcoord floats for %d vertices", m.Name, len(m.Texcoords), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d indices is not a whole number of triangles", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh %q: index %d at %d out of range (%d vertices)", m.Name, idx, i, n)
		}
	}
	return nil
}

var cubePositions = []float32{
	// Front face
	-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1,
	// Back face
	-1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1,
	// Top face
	-1, 1, -1, -1, 1, 1, 1, 1, 1, 1, 1, -1,
	// Bottom face
	-1, -1, -1, 1, -1, -1, 1, -1, 1, -1, -1, 1,
	// Right face
	1, -1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1,
	// Left face
	-1, -1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1,
}

var cubeIndices = []uint32{
	0, 1, 2, 0, 2, 3, // front
	4, 5, 6, 4, 6, 7, // back
	8, 9, 10, 8, 10, 11, // top
	12, 13, 14, 12, 14, 15, // bottom
	16, 17, 18, 16, 18, 19, // right
	20, 21, 22, 20, 22, 23, // left
}

// Cube returns the 24-vertex, 36-index cube spanning [-1, 1] on each axis.
// It has positions only. The arrays are shared between calls and must not
// be modified.
func Cube(t core.Transform) *Mesh {
	return NewMesh("cube", cubePositions, nil, nil, cubeIndices, t)
}
