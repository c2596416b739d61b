// Package gputest provides a recording gpu.Device for tests.
//
// The fake resolves a uniform or attribute name to a valid location only if
// the name occurs in the program's shader sources, mirroring a driver that
// strips undeclared names.
package gputest

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/math"
)

// Call is one recorded device call.
type Call struct {
	Op     string
	Detail string
}

// DrawCall snapshots the state a draw was issued with.
type DrawCall struct {
	Count       int
	Program     gpu.Program
	Framebuffer gpu.Framebuffer
	Viewport    [4]int
	IndexBuffer gpu.Buffer
	// Uniforms holds the current program's uniform values by name.
	Uniforms map[string]any
	// Textures maps texture unit to bound texture.
	Textures map[int]gpu.Texture
}

type ClearCall struct {
	Framebuffer gpu.Framebuffer
	Mask        gpu.ClearMask
	Color       core.Color
	Depth       float32
}

type AttributeBinding struct {
	Location   gpu.Location
	Buffer     gpu.Buffer
	Components int
}

type program struct {
	vertex, fragment string
	locations        map[string]gpu.Location
	names            map[gpu.Location]string
	uniforms         map[string]any
}

// Device is a gpu.Device that records every call. The zero value is not
// usable; call New.
type Device struct {
	// CompileFailures maps a stage to the info log its compilation fails with.
	CompileFailures map[gpu.Stage]string
	// LinkFailure, when set, makes every link fail with this log.
	LinkFailure string
	// RenderTargetFailure, when set, makes NewRenderTarget fail.
	RenderTargetFailure string

	Calls          []Call
	Draws          []DrawCall
	Clears         []ClearCall
	Attributes     []AttributeBinding
	InvalidUploads int

	next          uint32
	shaders       map[gpu.Shader]string
	programs      map[gpu.Program]*program
	buffers       map[gpu.Buffer][]float32
	indexBuffers  map[gpu.Buffer][]uint32
	textures      map[gpu.Texture][2]int
	targets       map[gpu.Framebuffer]*gpu.RenderTarget
	current       gpu.Program
	framebuffer   gpu.Framebuffer
	viewport      [4]int
	indexBuffer   gpu.Buffer
	boundTextures map[int]gpu.Texture
	displayW      int
	displayH      int
	depthTest     bool
}

var _ gpu.Device = (*Device)(nil)

// New returns a device with an 800x600 display.
func New() *Device {
	return &Device{
		CompileFailures: map[gpu.Stage]string{},
		shaders:         map[gpu.Shader]string{},
		programs:        map[gpu.Program]*program{},
		buffers:         map[gpu.Buffer][]float32{},
		indexBuffers:    map[gpu.Buffer][]uint32{},
		textures:        map[gpu.Texture][2]int{},
		targets:         map[gpu.Framebuffer]*gpu.RenderTarget{},
		boundTextures:   map[int]gpu.Texture{},
		displayW:        800,
		displayH:        600,
	}
}

func (d *Device) record(op, format string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Detail: fmt.Sprintf(format, args...)})
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset forgets recorded calls, draws and clears but keeps resources.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
	d.Clears = nil
	d.Attributes = nil
	d.InvalidUploads = 0
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (gpu.Shader, error) {
	d.record("CompileShader", "%s", stage)
	if log, ok := d.CompileFailures[stage]; ok {
		return 0, errors.New(log)
	}
	s := gpu.Shader(d.id())
	d.shaders[s] = source
	return s, nil
}

func (d *Device) DeleteShader(s gpu.Shader) {
	d.record("DeleteShader", "%d", s)
	delete(d.shaders, s)
}

func (d *Device) LinkProgram(vertex, fragment gpu.Shader) (gpu.Program, error) {
	d.record("LinkProgram", "%d %d", vertex, fragment)
	if d.LinkFailure != "" {
		return 0, errors.New(d.LinkFailure)
	}
	vs, ok := d.shaders[vertex]
	if !ok {
		return 0, fmt.Errorf("unknown vertex shader %d", vertex)
	}
	fs, ok := d.shaders[fragment]
	if !ok {
		return 0, fmt.Errorf("unknown fragment shader %d", fragment)
	}
	p := gpu.Program(d.id())
	d.programs[p] = &program{
		vertex:    vs,
		fragment:  fs,
		locations: map[string]gpu.Location{},
		names:     map[gpu.Location]string{},
		uniforms:  map[string]any{},
	}
	return p, nil
}

func (d *Device) DeleteProgram(p gpu.Program) {
	d.record("DeleteProgram", "%d", p)
	delete(d.programs, p)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.record("UseProgram", "%d", p)
	d.current = p
}

func (d *Device) location(p gpu.Program, name string) gpu.Location {
	prog, ok := d.programs[p]
	if !ok {
		return gpu.InvalidLocation
	}
	if loc, ok := prog.locations[name]; ok {
		return loc
	}
	if !strings.Contains(prog.vertex, name) && !strings.Contains(prog.fragment, name) {
		return gpu.InvalidLocation
	}
	loc := gpu.Location(len(prog.locations))
	prog.locations[name] = loc
	prog.names[loc] = name
	return loc
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	return d.location(p, name)
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	return d.location(p, name)
}

func (d *Device) NewVertexBuffer(data []float32) gpu.Buffer {
	b := gpu.Buffer(d.id())
	d.buffers[b] = append([]float32(nil), data...)
	d.record("NewVertexBuffer", "%d floats", len(data))
	return b
}

func (d *Device) NewIndexBuffer(indices []uint32) gpu.Buffer {
	b := gpu.Buffer(d.id())
	d.indexBuffers[b] = append([]uint32(nil), indices...)
	d.record("NewIndexBuffer", "%d indices", len(indices))
	return b
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	d.record("DeleteBuffer", "%d", b)
	delete(d.buffers, b)
	delete(d.indexBuffers, b)
}

// Buffer returns the contents of a live vertex buffer.
func (d *Device) Buffer(b gpu.Buffer) ([]float32, bool) {
	data, ok := d.buffers[b]
	return data, ok
}

// LiveBuffers counts vertex and index buffers not yet deleted.
func (d *Device) LiveBuffers() int {
	return len(d.buffers) + len(d.indexBuffers)
}

func (d *Device) BindAttribute(loc gpu.Location, buf gpu.Buffer, components int) {
	d.record("BindAttribute", "%d %d %d", loc, buf, components)
	d.Attributes = append(d.Attributes, AttributeBinding{Location: loc, Buffer: buf, Components: components})
}

func (d *Device) BindIndexBuffer(b gpu.Buffer) {
	d.record("BindIndexBuffer", "%d", b)
	d.indexBuffer = b
}

func (d *Device) upload(op string, loc gpu.Location, v any) {
	prog, ok := d.programs[d.current]
	if !loc.Valid() || !ok {
		d.InvalidUploads++
		d.record(op, "invalid location %d", loc)
		return
	}
	name := prog.names[loc]
	prog.uniforms[name] = v
	d.record(op, "%s", name)
}

func (d *Device) Uniform1f(loc gpu.Location, v float32) {
	d.upload("Uniform1f", loc, v)
}

func (d *Device) Uniform1i(loc gpu.Location, v int32) {
	d.upload("Uniform1i", loc, v)
}

func (d *Device) Uniform3f(loc gpu.Location, v math.Vec3) {
	d.upload("Uniform3f", loc, v)
}

func (d *Device) UniformMatrix4(loc gpu.Location, m math.Mat4) {
	d.upload("UniformMatrix4", loc, m)
}

// Uniform returns the value last uploaded to name in program p.
func (d *Device) Uniform(p gpu.Program, name string) (any, bool) {
	prog, ok := d.programs[p]
	if !ok {
		return nil, false
	}
	v, ok := prog.uniforms[name]
	return v, ok
}

func (d *Device) BindTexture(unit int, tex gpu.Texture) {
	d.record("BindTexture", "%d %d", unit, tex)
	d.boundTextures[unit] = tex
}

func (d *Device) NewTexture(width, height int, rgba []byte) (gpu.Texture, error) {
	if len(rgba) != width*height*4 {
		return 0, &gpu.ResourceError{Resource: "texture", Detail: fmt.Sprintf("%d bytes for %dx%d", len(rgba), width, height)}
	}
	t := gpu.Texture(d.id())
	d.textures[t] = [2]int{width, height}
	d.record("NewTexture", "%dx%d", width, height)
	return t, nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	d.record("DeleteTexture", "%d", t)
	delete(d.textures, t)
}

// LiveTextures counts textures not yet deleted, including render targets.
func (d *Device) LiveTextures() int {
	return len(d.textures)
}

func (d *Device) NewRenderTarget(size int) (*gpu.RenderTarget, error) {
	d.record("NewRenderTarget", "%d", size)
	if d.RenderTargetFailure != "" {
		return nil, &gpu.ResourceError{Resource: "framebuffer", Detail: d.RenderTargetFailure}
	}
	rt := &gpu.RenderTarget{
		Framebuffer: gpu.Framebuffer(d.id()),
		Texture:     gpu.Texture(d.id()),
		Size:        size,
	}
	d.textures[rt.Texture] = [2]int{size, size}
	d.targets[rt.Framebuffer] = rt
	return rt, nil
}

func (d *Device) DeleteRenderTarget(rt *gpu.RenderTarget) {
	d.record("DeleteRenderTarget", "%d", rt.Framebuffer)
	delete(d.targets, rt.Framebuffer)
	delete(d.textures, rt.Texture)
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	d.record("BindFramebuffer", "%d", fb)
	d.framebuffer = fb
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport", "%d %d %d %d", x, y, width, height)
	d.viewport = [4]int{x, y, width, height}
}

func (d *Device) DisplaySize() (int, int) {
	return d.displayW, d.displayH
}

func (d *Device) SetDisplaySize(width, height int) {
	d.displayW, d.displayH = width, height
}

func (d *Device) SetDepthTest(enabled bool) {
	d.record("SetDepthTest", "%t", enabled)
	d.depthTest = enabled
}

// DepthTest reports whether depth testing is enabled.
func (d *Device) DepthTest() bool {
	return d.depthTest
}

func (d *Device) Clear(mask gpu.ClearMask, color core.Color, depth float32) {
	d.record("Clear", "%d", d.framebuffer)
	d.Clears = append(d.Clears, ClearCall{Framebuffer: d.framebuffer, Mask: mask, Color: color, Depth: depth})
}

func (d *Device) DrawTriangles(count int) {
	d.record("DrawTriangles", "%d", count)
	dc := DrawCall{
		Count:       count,
		Program:     d.current,
		Framebuffer: d.framebuffer,
		Viewport:    d.viewport,
		IndexBuffer: d.indexBuffer,
		Uniforms:    map[string]any{},
		Textures:    maps.Clone(d.boundTextures),
	}
	if prog, ok := d.programs[d.current]; ok {
		dc.Uniforms = maps.Clone(prog.uniforms)
	}
	d.Draws = append(d.Draws, dc)
}
