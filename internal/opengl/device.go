// Package opengl implements gpu.Device on OpenGL 4.1 core via go-gl.
package opengl

import (
	"fmt"
	"log/slog"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/math"
)

// Device issues GL calls directly. The context must be current on the
// calling goroutine for every method.
type Device struct {
	vao     uint32
	width   int
	height  int
	logger  *slog.Logger
	targets map[gpu.Framebuffer]uint32 // framebuffer -> depth renderbuffer
}

var _ gpu.Device = (*Device)(nil)

// NewDevice initialises OpenGL for the current context. Must be called after
// the window context is made current.
func NewDevice(width, height int, logger *slog.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opengl ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	d := &Device{width: width, height: height, logger: logger, targets: map[gpu.Framebuffer]uint32{}}

	// Core profile requires a bound VAO for any attribute state. Attribute
	// bindings are re-issued per draw, so one shared VAO is enough.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.DepthFunc(gl.LEQUAL)
	return d, nil
}

// Destroy frees the shared vertex array.
func (d *Device) Destroy() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *Device) UseProgram(p gpu.Program) { gl.UseProgram(uint32(p)) }

func (d *Device) DeleteProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) DeleteShader(s gpu.Shader) { gl.DeleteShader(uint32(s)) }

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

// ── Buffers ───────────────────────────────────────────────────────────────────

func (d *Device) NewVertexBuffer(data []float32) gpu.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return gpu.Buffer(id)
}

func (d *Device) NewIndexBuffer(indices []uint32) gpu.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	return gpu.Buffer(id)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) BindAttribute(loc gpu.Location, buf gpu.Buffer, components int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(components), gl.FLOAT, false, 0, nil)
}

func (d *Device) BindIndexBuffer(b gpu.Buffer) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
}

// ── Uniforms ──────────────────────────────────────────────────────────────────

func (d *Device) Uniform1f(loc gpu.Location, v float32) { gl.Uniform1f(int32(loc), v) }

func (d *Device) Uniform1i(loc gpu.Location, v int32) { gl.Uniform1i(int32(loc), v) }

func (d *Device) Uniform3f(loc gpu.Location, v math.Vec3) {
	gl.Uniform3f(int32(loc), v.X, v.Y, v.Z)
}

// UniformMatrix4 uploads without transposing: a row-vector Mat4 already has
// the memory layout GL expects for column vectors.
func (d *Device) UniformMatrix4(loc gpu.Location, m math.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, (*float32)(unsafe.Pointer(&m[0][0])))
}

func (d *Device) BindTexture(unit int, tex gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

// ── Framebuffer state ─────────────────────────────────────────────────────────

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) DisplaySize() (int, int) { return d.width, d.height }

func (d *Device) SetDisplaySize(width, height int) {
	d.width, d.height = width, height
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (d *Device) Clear(mask gpu.ClearMask, color core.Color, depth float32) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		gl.ClearColor(color.R, color.G, color.B, color.A)
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		gl.ClearDepth(float64(depth))
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) DrawTriangles(count int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
}
