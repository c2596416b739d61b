// Package config loads the scene description from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"shadow-renderer/math"
)

// Vec3 is written as a three element list, e.g. [0, 80, 80].
type Vec3 [3]float32

func (v Vec3) Vec3() math.Vec3 { return math.Vec3FromSlice(v[:]) }

type Scene struct {
	Window  Window  `yaml:"window" toml:"window"`
	Shadow  Shadow  `yaml:"shadow" toml:"shadow"`
	Light   Light   `yaml:"light" toml:"light"`
	Camera  Camera  `yaml:"camera" toml:"camera"`
	Shaders Shaders `yaml:"shaders" toml:"shaders"`
	Models  []Model `yaml:"models" toml:"models"`
}

type Window struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
}

type Shadow struct {
	Resolution int     `yaml:"resolution" toml:"resolution"`
	Frustum    Frustum `yaml:"frustum" toml:"frustum"`
}

type Frustum struct {
	Left   float32 `yaml:"left" toml:"left"`
	Right  float32 `yaml:"right" toml:"right"`
	Bottom float32 `yaml:"bottom" toml:"bottom"`
	Top    float32 `yaml:"top" toml:"top"`
	Near   float32 `yaml:"near" toml:"near"`
	Far    float32 `yaml:"far" toml:"far"`
}

type Light struct {
	Position    Vec3    `yaml:"position" toml:"position"`
	FocalPoint  Vec3    `yaml:"focal_point" toml:"focal_point"`
	Up          Vec3    `yaml:"up" toml:"up"`
	Intensity   float32 `yaml:"intensity" toml:"intensity"`
	Color       Vec3    `yaml:"color" toml:"color"`
	CastsShadow bool    `yaml:"casts_shadow" toml:"casts_shadow"`
	// OrbitSpeed rotates the light about its focal point, in radians per
	// second. Zero keeps it still.
	OrbitSpeed float32 `yaml:"orbit_speed" toml:"orbit_speed"`
}

type Camera struct {
	Position   Vec3    `yaml:"position" toml:"position"`
	Target     Vec3    `yaml:"target" toml:"target"`
	Up         Vec3    `yaml:"up" toml:"up"`
	FOVDegrees float32 `yaml:"fov_degrees" toml:"fov_degrees"`
	Near       float32 `yaml:"near" toml:"near"`
	Far        float32 `yaml:"far" toml:"far"`
}

// Shaders.Dir overrides the embedded GLSL with files from disk.
type Shaders struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// MaterialPhong is the only model material.
const MaterialPhong = "phong"

type Model struct {
	Path      string `yaml:"path" toml:"path"`
	Material  string `yaml:"material" toml:"material"`
	Translate Vec3   `yaml:"translate" toml:"translate"`
	Scale     Vec3   `yaml:"scale" toml:"scale"`
}

// Default is the sample scene: a character on a floor lit from above and
// in front.
func Default() *Scene {
	return &Scene{
		Window: Window{Width: 1280, Height: 720, Title: "shadow-renderer", VSync: true},
		Shadow: Shadow{
			Resolution: 2048,
			Frustum:    Frustum{Left: -100, Right: 100, Bottom: -100, Top: 100, Near: 0.01, Far: 100},
		},
		Light: Light{
			Position:    Vec3{0, 80, 80},
			FocalPoint:  Vec3{0, 0, 0},
			Up:          Vec3{0, 1, 0},
			Intensity:   1,
			Color:       Vec3{1, 1, 1},
			CastsShadow: true,
		},
		Camera: Camera{
			Position:   Vec3{30, 30, 30},
			Target:     Vec3{0, 0, 0},
			Up:         Vec3{0, 1, 0},
			FOVDegrees: 75,
			Near:       1e-2,
			Far:        1000,
		},
		Models: []Model{
			{Path: "assets/mary/Marry.obj", Material: MaterialPhong, Translate: Vec3{0, 0, 0}, Scale: Vec3{20, 20, 20}},
			{Path: "assets/floor/floor.obj", Material: MaterialPhong, Translate: Vec3{0, 0, -30}, Scale: Vec3{4, 4, 4}},
		},
	}
}

// Load reads path over Default and validates the result. The format is
// chosen by extension: .yaml, .yml or .toml.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// The model list is replaced as a whole, never merged with the defaults.
	cfg := Default()
	defaults := cfg.Models
	cfg.Models = nil
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %q: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.Models == nil {
		cfg.Models = defaults
	}

	// Relative model and shader paths are resolved against the config file.
	dir := filepath.Dir(path)
	for i := range cfg.Models {
		if p := cfg.Models[i].Path; p != "" && !filepath.IsAbs(p) {
			cfg.Models[i].Path = filepath.Join(dir, p)
		}
	}
	if d := cfg.Shaders.Dir; d != "" && !filepath.IsAbs(d) {
		cfg.Shaders.Dir = filepath.Join(dir, d)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (s *Scene) Validate() error {
	var errs []error
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must be positive", s.Window.Width, s.Window.Height))
	}
	if s.Shadow.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("shadow: resolution %d must be positive", s.Shadow.Resolution))
	}
	f := s.Shadow.Frustum
	if f.Left == f.Right || f.Bottom == f.Top {
		errs = append(errs, errors.New("shadow: frustum has zero width or height"))
	}
	if f.Near >= f.Far {
		errs = append(errs, fmt.Errorf("shadow: frustum near %g must be less than far %g", f.Near, f.Far))
	}
	if s.Light.Up == (Vec3{}) {
		errs = append(errs, errors.New("light: up vector is zero"))
	}
	if s.Light.Position == s.Light.FocalPoint {
		errs = append(errs, errors.New("light: position equals focal point"))
	}
	if s.Camera.Near <= 0 || s.Camera.Near >= s.Camera.Far {
		errs = append(errs, fmt.Errorf("camera: need 0 < near (%g) < far (%g)", s.Camera.Near, s.Camera.Far))
	}
	if s.Camera.FOVDegrees <= 0 || s.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera: fov %g out of range", s.Camera.FOVDegrees))
	}
	for i, m := range s.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("models[%d]: empty path", i))
		}
		if m.Material != MaterialPhong {
			errs = append(errs, fmt.Errorf("models[%d]: unknown material %q", i, m.Material))
		}
	}
	return errors.Join(errs...)
}
