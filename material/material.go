// Package material describes the uniform values and vertex attributes a
// shader program needs, independent of any particular mesh.
package material

import (
	"errors"
	"fmt"
	"slices"

	"shadow-renderer/gpu"
	"shadow-renderer/shader"
)

// Baseline uniforms every material declares. The draw call fills them from
// the camera, the mesh transform and the light.
const (
	ViewMatrix       = "uViewMatrix"
	ModelMatrix      = "uModelMatrix"
	ProjectionMatrix = "uProjectionMatrix"
	CameraPosition   = "uCameraPos"
	LightPosition    = "uLightPos"
)

var baseline = []string{ViewMatrix, ModelMatrix, ProjectionMatrix, CameraPosition, LightPosition}

// ErrAttributesAfterCompile is returned when extra attributes are registered
// on a material whose program has already been built.
var ErrAttributesAfterCompile = errors.New("material: attributes registered after shader build")

// Material owns a set of uniform values, the attribute names its program
// reads and the shader source. A nil Target renders to the screen.
type Material struct {
	Name   string
	Target *gpu.RenderTarget

	uniforms []Uniform
	index    map[string]int
	attribs  []string
	src      shader.Pair
	built    bool
}

// New returns a material with the given uniforms. Duplicate names keep the
// last value at the position of the first.
func New(name string, uniforms []Uniform, src shader.Pair, target *gpu.RenderTarget) *Material {
	m := &Material{
		Name:   name,
		Target: target,
		index:  make(map[string]int, len(uniforms)),
		src:    src,
	}
	for _, u := range uniforms {
		if i, ok := m.index[u.Name]; ok {
			m.uniforms[i].Value = u.Value
			continue
		}
		m.index[u.Name] = len(m.uniforms)
		m.uniforms = append(m.uniforms, u)
	}
	return m
}

// Copy returns an unbuilt material with the same name, uniforms, source and
// target. Registered attributes are not carried over.
func (m *Material) Copy() *Material {
	return New(m.Name, m.uniforms, m.src, m.Target)
}

// Uniforms returns the declared uniforms in declaration order. Baseline
// uniforms are not included; they carry no stored value.
func (m *Material) Uniforms() []Uniform {
	return slices.Clone(m.uniforms)
}

// Uniform returns the stored value of a declared uniform.
func (m *Material) Uniform(name string) (Value, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.uniforms[i].Value, true
}

// Has reports whether name is a baseline or declared uniform.
func (m *Material) Has(name string) bool {
	if slices.Contains(baseline, name) {
		return true
	}
	_, ok := m.index[name]
	return ok
}

// UniformNames returns the baseline names followed by the declared names.
func (m *Material) UniformNames() []string {
	names := slices.Clone(baseline)
	for _, u := range m.uniforms {
		if !slices.Contains(baseline, u.Name) {
			names = append(names, u.Name)
		}
	}
	return names
}

// Attributes returns the vertex attribute names registered so far.
func (m *Material) Attributes() []string {
	return slices.Clone(m.attribs)
}

// RegisterExtraAttributes appends per-mesh attribute names. It must be
// called before BuildShaderProgram.
func (m *Material) RegisterExtraAttributes(names ...string) error {
	if m.built {
		return fmt.Errorf("%w: %q %v", ErrAttributesAfterCompile, m.Name, names)
	}
	for _, n := range names {
		if !slices.Contains(m.attribs, n) {
			m.attribs = append(m.attribs, n)
		}
	}
	return nil
}

// BuildShaderProgram compiles the material's source with its accumulated
// uniform and attribute names.
func (m *Material) BuildShaderProgram(dev gpu.Device) (*shader.Program, error) {
	p, err := shader.Compile(dev, m.src.Vertex, m.src.Fragment, m.UniformNames(), m.attribs)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name, err)
	}
	m.built = true
	return p, nil
}
