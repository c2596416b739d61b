package material

import (
	"shadow-renderer/math"
	"shadow-renderer/shader"
)

const (
	ligIntensity = "uLigIntensity"
	lightColor   = "uLightColor"
)

// Emissive is the unlit material of a light's proxy geometry.
type Emissive struct {
	*Material
	Intensity float32
	Color     math.Vec3
}

func NewEmissive(intensity float32, color math.Vec3, src shader.Pair) *Emissive {
	return &Emissive{
		Material: New("emissive", []Uniform{
			{Name: ligIntensity, Value: Scalar(intensity)},
			{Name: lightColor, Value: Vec3(color)},
		}, src, nil),
		Intensity: intensity,
		Color:     color,
	}
}

// EffectiveIntensity is the emitted radiance, intensity × color.
func (e *Emissive) EffectiveIntensity() math.Vec3 {
	return e.Color.Mul(e.Intensity)
}
