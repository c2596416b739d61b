package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shadow-renderer/gpu"
)

// NewTexture uploads tightly packed RGBA8 pixels with repeat wrapping and
// mipmaps.
func (d *Device) NewTexture(width, height int, rgba []byte) (gpu.Texture, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return 0, &gpu.ResourceError{
			Resource: "texture",
			Detail:   fmt.Sprintf("%d bytes of pixel data for %dx%d", len(rgba), width, height),
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.Texture(id), nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// NewRenderTarget creates a size×size framebuffer with an RGBA8 colour
// texture and a 24-bit depth renderbuffer. The shadow pass packs depth into
// the colour channels, so only the colour attachment is ever sampled.
func (d *Device) NewRenderTarget(size int) (*gpu.RenderTarget, error) {
	if size <= 0 {
		return nil, &gpu.ResourceError{Resource: "framebuffer", Detail: fmt.Sprintf("invalid size %d", size)}
	}

	var tex, depth, fbo uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size), int32(size), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenRenderbuffers(1, &depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(size), int32(size))

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteTextures(1, &tex)
		gl.DeleteRenderbuffers(1, &depth)
		gl.DeleteFramebuffers(1, &fbo)
		return nil, &gpu.ResourceError{Resource: "framebuffer", Detail: fmt.Sprintf("incomplete: status=0x%X", status)}
	}

	rt := &gpu.RenderTarget{Framebuffer: gpu.Framebuffer(fbo), Texture: gpu.Texture(tex), Size: size}
	d.targets[rt.Framebuffer] = depth
	d.logger.Debug("render target created", "framebuffer", fbo, "size", size)
	return rt, nil
}

func (d *Device) DeleteRenderTarget(rt *gpu.RenderTarget) {
	if rt == nil {
		return
	}
	fbo, tex := uint32(rt.Framebuffer), uint32(rt.Texture)
	if depth, ok := d.targets[rt.Framebuffer]; ok {
		gl.DeleteRenderbuffers(1, &depth)
		delete(d.targets, rt.Framebuffer)
	}
	gl.DeleteFramebuffers(1, &fbo)
	gl.DeleteTextures(1, &tex)
}
