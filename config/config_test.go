package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Vec3{0, 80, 80}, cfg.Light.Position)
	assert.Equal(t, 2048, cfg.Shadow.Resolution)
	assert.Len(t, cfg.Models, 2)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "scene.yaml", `
shadow:
  resolution: 512
light:
  position: [10, 20, 30]
  orbit_speed: 0.5
  casts_shadow: false
models:
  - path: models/box.obj
    material: phong
    translate: [1, 2, 3]
    scale: [2, 2, 2]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Shadow.Resolution)
	assert.Equal(t, Vec3{10, 20, 30}, cfg.Light.Position)
	assert.Equal(t, float32(0.5), cfg.Light.OrbitSpeed)
	assert.False(t, cfg.Light.CastsShadow)
	// Unset fields keep their defaults.
	assert.Equal(t, float32(-100), cfg.Shadow.Frustum.Left)
	assert.Equal(t, 1280, cfg.Window.Width)

	require.Len(t, cfg.Models, 1)
	m := cfg.Models[0]
	assert.Equal(t, filepath.Join(filepath.Dir(path), "models/box.obj"), m.Path)
	assert.Equal(t, Vec3{1, 2, 3}, m.Translate)
	assert.Equal(t, float32(2), m.Scale.Vec3().Y)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "scene.toml", `
[window]
width = 640
height = 480

[shadow.frustum]
left = -50.0
right = 50.0
bottom = -50.0
top = 50.0
near = 1.0
far = 200.0

[shaders]
dir = "/opt/shaders"

[[models]]
path = "/data/floor.obj"
material = "phong"
translate = [0.0, 0.0, -30.0]
scale = [4.0, 4.0, 4.0]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, Frustum{Left: -50, Right: 50, Bottom: -50, Top: 50, Near: 1, Far: 200}, cfg.Shadow.Frustum)
	assert.Equal(t, "/opt/shaders", cfg.Shaders.Dir)
	require.Len(t, cfg.Models, 1)
	assert.Equal(t, "/data/floor.obj", cfg.Models[0].Path)
	assert.Equal(t, Vec3{0, 0, -30}, cfg.Models[0].Translate)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load(writeFile(t, "scene.json", "{}"))
		assert.ErrorContains(t, err, "unsupported format")
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "scene.yml", "shadow: [unterminated"))
		assert.ErrorContains(t, err, "parse config")
	})
	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "scene.yaml", "shadow:\n  resolution: 0\n"))
		assert.ErrorContains(t, err, "resolution 0")
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Scene)
		want   string
	}{
		{"resolution", func(s *Scene) { s.Shadow.Resolution = -1 }, "resolution -1"},
		{"flat frustum", func(s *Scene) { s.Shadow.Frustum.Right = s.Shadow.Frustum.Left }, "zero width"},
		{"near after far", func(s *Scene) { s.Shadow.Frustum.Near = 200 }, "must be less than far"},
		{"light on focal point", func(s *Scene) { s.Light.Position = s.Light.FocalPoint }, "equals focal point"},
		{"camera near", func(s *Scene) { s.Camera.Near = 0 }, "camera"},
		{"empty path", func(s *Scene) { s.Models[0].Path = "" }, "models[0]: empty path"},
		{"material", func(s *Scene) { s.Models[1].Material = "pbr" }, `unknown material "pbr"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Shadow.Resolution = 0
	cfg.Models[0].Material = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution")
	assert.Contains(t, err.Error(), "models[0]")
}
