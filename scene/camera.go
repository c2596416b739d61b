package scene

import (
	"github.com/chewxy/math32"

	"shadow-renderer/math"
)

// Camera is a perspective look-at camera. FOV is the vertical field of view
// in radians.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
	FOV      float32
	Aspect   float32
	Near     float32
	Far      float32
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Position: math.NewVec3(0, 0, 1),
		Target:   math.Vec3Zero,
		Up:       math.Vec3Up,
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// NewCameraDegrees is NewCamera with the field of view in degrees.
func NewCameraDegrees(fovDegrees, aspect, near, far float32) *Camera {
	return NewCamera(fovDegrees*math32.Pi/180, aspect, near, far)
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.Aspect = width / height
	}
}

func (c *Camera) GetPosition() math.Vec3 { return c.Position }

// GetViewMatrix maps world space to camera space.
func (c *Camera) GetViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

// GetWorldMatrix places the camera in the world; it is the inverse of the
// view matrix.
func (c *Camera) GetWorldMatrix() math.Mat4 {
	return c.GetViewMatrix().Inverse()
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}
