package material

import (
	"shadow-renderer/gpu"
	"shadow-renderer/math"
)

// Value is the closed set of uniform value kinds: Scalar, Vec3, Int,
// Matrix4 and Texture.
type Value interface {
	isValue()
}

type (
	Scalar  float32
	Vec3    math.Vec3
	Int     int32
	Matrix4 math.Mat4
	// Texture is bound to the next free texture unit at draw time.
	Texture gpu.Texture
)

func (Scalar) isValue()  {}
func (Vec3) isValue()    {}
func (Int) isValue()     {}
func (Matrix4) isValue() {}
func (Texture) isValue() {}

// Uniform is one named slot of a material.
type Uniform struct {
	Name  string
	Value Value
}
