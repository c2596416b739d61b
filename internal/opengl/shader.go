package opengl

import (
	"errors"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shadow-renderer/gpu"
)

func (d *Device) CompileShader(stage gpu.Stage, source string) (gpu.Shader, error) {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gpu.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return gpu.Shader(shader), nil
}

func (d *Device) LinkProgram(vertex, fragment gpu.Shader) (gpu.Program, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, uint32(vertex))
	gl.AttachShader(prog, uint32(fragment))
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return gpu.Program(prog), nil
}
