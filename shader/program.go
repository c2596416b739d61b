// Package shader compiles vertex/fragment pairs into GPU programs and
// resolves the uniform and attribute locations a material asks for.
package shader

import (
	"fmt"
	"log/slog"

	"shadow-renderer/gpu"
)

// CompileError reports a stage that failed to compile. Source is the text
// handed to the driver, Log is the driver's diagnostic output.
type CompileError struct {
	Stage  gpu.Stage
	Source string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compile failed: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader link failed: " + e.Log
}

// Program is a linked GPU program plus the locations resolved for the names
// it was built with. It is immutable after Compile.
type Program struct {
	dev      gpu.Device
	handle   gpu.Program
	uniforms map[string]gpu.Location
	attribs  map[string]gpu.Location
}

// Compile builds a program from vertex and fragment source and resolves
// every requested name. Names the program does not declare resolve to
// gpu.InvalidLocation. Any compile or link failure is returned and no
// program is created.
func Compile(dev gpu.Device, vertexSrc, fragmentSrc string, uniforms, attribs []string) (*Program, error) {
	vs, err := compileStage(dev, gpu.VertexStage, vertexSrc)
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(vs)

	fs, err := compileStage(dev, gpu.FragmentStage, fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(fs)

	handle, err := dev.LinkProgram(vs, fs)
	if err != nil {
		return nil, &LinkError{Log: err.Error()}
	}

	p := &Program{
		dev:      dev,
		handle:   handle,
		uniforms: make(map[string]gpu.Location, len(uniforms)),
		attribs:  make(map[string]gpu.Location, len(attribs)),
	}
	missing := 0
	for _, name := range uniforms {
		loc := dev.UniformLocation(handle, name)
		if !loc.Valid() {
			missing++
		}
		p.uniforms[name] = loc
	}
	for _, name := range attribs {
		loc := dev.AttribLocation(handle, name)
		if !loc.Valid() {
			missing++
		}
		p.attribs[name] = loc
	}

	slog.Debug("shader program linked",
		"program", handle,
		"vertex_bytes", len(vertexSrc),
		"fragment_bytes", len(fragmentSrc),
		"uniforms", len(uniforms),
		"attribs", len(attribs),
		"unresolved", missing)
	return p, nil
}

func compileStage(dev gpu.Device, stage gpu.Stage, src string) (gpu.Shader, error) {
	s, err := dev.CompileShader(stage, src)
	if err != nil {
		return 0, &CompileError{Stage: stage, Source: src, Log: err.Error()}
	}
	return s, nil
}

// Handle returns the underlying GPU program.
func (p *Program) Handle() gpu.Program { return p.handle }

// Use makes the program current.
func (p *Program) Use() { p.dev.UseProgram(p.handle) }

// Uniform returns the location of a uniform requested at compile time, or
// gpu.InvalidLocation.
func (p *Program) Uniform(name string) gpu.Location {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return gpu.InvalidLocation
}

// Attrib returns the location of an attribute requested at compile time, or
// gpu.InvalidLocation.
func (p *Program) Attrib(name string) gpu.Location {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return gpu.InvalidLocation
}

// Release deletes the GPU program. The Program must not be used afterwards.
func (p *Program) Release() {
	if p.handle != 0 {
		p.dev.DeleteProgram(p.handle)
		p.handle = 0
	}
}
