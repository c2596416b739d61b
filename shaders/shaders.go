// Package shaders embeds the GLSL programs used by the built-in materials.
package shaders

import "embed"

// Paths of each program stage inside FS.
const (
	PhongVertex       = "phong.vert"
	PhongFragment     = "phong.frag"
	ShadowVertex      = "shadow.vert"
	ShadowFragment    = "shadow.frag"
	LightCubeVertex   = "lightcube.vert"
	LightCubeFragment = "lightcube.frag"
)

//go:embed *.vert *.frag
var FS embed.FS
