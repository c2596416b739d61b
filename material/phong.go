package material

import (
	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/math"
	"shadow-renderer/shader"
)

// LightSource is what the lit and shadow materials need from a light when
// they are built.
type LightSource interface {
	// LightSpaceMVP maps object space of a mesh placed by translate and
	// scale into the light's clip space.
	LightSpaceMVP(translate, scale math.Vec3) math.Mat4
	ShadowTarget() *gpu.RenderTarget
	EffectiveIntensity() math.Vec3
}

// Uniform names of the lit and shadow programs.
const (
	Sampler        = "uSampler"
	Specular       = "uKs"
	LightIntensity = "uLightIntensity"
	ShadowMap      = "uShadowMap"
	LightMVP       = "uLightMVP"
)

// NewPhong captures the light state a Blinn-Phong surface needs at build
// time: the light-space MVP for the given placement, the emitted radiance
// and the shadow map. The colour texture takes unit 0, the shadow map unit 1.
func NewPhong(color gpu.Texture, specular math.Vec3, light LightSource, t core.Transform, src shader.Pair) *Material {
	return New("phong", phongUniforms(color, specular, light, t), src, nil)
}

func phongUniforms(color gpu.Texture, specular math.Vec3, light LightSource, t core.Transform) []Uniform {
	return []Uniform{
		{Name: Sampler, Value: Texture(color)},
		{Name: Specular, Value: Vec3(specular)},
		{Name: LightIntensity, Value: Vec3(light.EffectiveIntensity())},
		{Name: ShadowMap, Value: Texture(light.ShadowTarget().Texture)},
		{Name: LightMVP, Value: Matrix4(light.LightSpaceMVP(t.Translate, t.Scale))},
	}
}

// NewShadow returns the depth-pass material for a mesh placed by t. It
// renders into the light's shadow target.
func NewShadow(light LightSource, t core.Transform, src shader.Pair) *Material {
	return New("shadow", shadowUniforms(light, t), src, light.ShadowTarget())
}

func shadowUniforms(light LightSource, t core.Transform) []Uniform {
	return []Uniform{
		{Name: LightMVP, Value: Matrix4(light.LightSpaceMVP(t.Translate, t.Scale))},
	}
}
