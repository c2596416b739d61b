package math

import "github.com/go-gl/mathgl/mgl32"

// ToMgl converts m to the equivalent column-vector mgl32 matrix.
// Both share the same flat element order.
func (m Mat4) ToMgl() mgl32.Mat4 {
	return mgl32.Mat4(m.Elements())
}

// Mat4FromMgl converts an mgl32 matrix to the row-vector Mat4.
func Mat4FromMgl(g mgl32.Mat4) Mat4 {
	return Mat4FromElements([16]float32(g))
}

func (v Vec3) ToMgl() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
