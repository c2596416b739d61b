// Package gpu defines the graphics API boundary used by the rendering
// pipeline. Handles are opaque; only the Device that created a handle may
// interpret it. The zero Framebuffer is the default (on-screen) framebuffer.
package gpu

import (
	"fmt"

	"shadow-renderer/core"
	"shadow-renderer/math"
)

type (
	Shader      uint32
	Program     uint32
	Buffer      uint32
	Texture     uint32
	Framebuffer uint32
)

// DefaultFramebuffer renders to the screen.
const DefaultFramebuffer Framebuffer = 0

// Location is a resolved uniform or attribute slot in a linked program.
type Location int32

// InvalidLocation is returned for names the program does not declare.
// Uploading to it is a caller bug.
const InvalidLocation Location = -1

func (l Location) Valid() bool { return l >= 0 }

type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ClearMask selects the buffers Clear resets.
type ClearMask uint32

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// RenderTarget is an off-screen framebuffer whose colour attachment can be
// sampled as a texture afterwards.
type RenderTarget struct {
	Framebuffer Framebuffer
	Texture     Texture
	Size        int
}

// Device is the subset of a retained-mode immediate graphics API the
// renderer needs. All calls must come from the thread owning the context.
type Device interface {
	// CompileShader returns the driver's info log as the error on failure.
	CompileShader(stage Stage, source string) (Shader, error)
	DeleteShader(s Shader)
	// LinkProgram returns the driver's info log as the error on failure.
	LinkProgram(vertex, fragment Shader) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)
	UniformLocation(p Program, name string) Location
	AttribLocation(p Program, name string) Location

	NewVertexBuffer(data []float32) Buffer
	NewIndexBuffer(indices []uint32) Buffer
	DeleteBuffer(b Buffer)
	// BindAttribute binds buf and describes it as tightly packed float
	// vectors of the given component count at loc.
	BindAttribute(loc Location, buf Buffer, components int)
	BindIndexBuffer(b Buffer)

	Uniform1f(loc Location, v float32)
	Uniform1i(loc Location, v int32)
	Uniform3f(loc Location, v math.Vec3)
	UniformMatrix4(loc Location, m math.Mat4)
	// BindTexture makes tex current on the given zero-based texture unit.
	BindTexture(unit int, tex Texture)

	NewTexture(width, height int, rgba []byte) (Texture, error)
	DeleteTexture(t Texture)
	NewRenderTarget(size int) (*RenderTarget, error)
	DeleteRenderTarget(rt *RenderTarget)

	BindFramebuffer(fb Framebuffer)
	Viewport(x, y, width, height int)
	DisplaySize() (width, height int)
	SetDisplaySize(width, height int)
	SetDepthTest(enabled bool)
	Clear(mask ClearMask, color core.Color, depth float32)

	// DrawTriangles issues an indexed triangle-list draw over count indices
	// of the bound index buffer.
	DrawTriangles(count int)
}

// ResourceError reports a GPU resource that could not be created.
type ResourceError struct {
	Resource string
	Detail   string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("create %s: %s", e.Resource, e.Detail)
}
