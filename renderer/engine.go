// Package renderer assembles a configured scene into a SceneRenderer and
// drives it frame by frame.
package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"shadow-renderer/asset"
	"shadow-renderer/config"
	"shadow-renderer/core"
	"shadow-renderer/gpu"
	"shadow-renderer/light"
	"shadow-renderer/material"
	"shadow-renderer/math"
	"shadow-renderer/pipeline"
	"shadow-renderer/scene"
	"shadow-renderer/shader"
	"shadow-renderer/shaders"
)

// RenderEngine owns everything built from a config.Scene: the light, the
// camera, the uploaded textures and the renderer holding the drawables.
type RenderEngine struct {
	Light    *light.Directional
	Camera   *scene.Camera
	Renderer *pipeline.SceneRenderer

	dev        gpu.Device
	logger     *slog.Logger
	textures   []gpu.Texture
	orbitSpeed float32
}

type model struct {
	cfg    config.Model
	meshes []asset.MeshData
}

type pendingMesh struct {
	mesh   *scene.Mesh
	phong  *material.Pending
	shadow *material.Pending
}

// NewRenderEngine loads every model of cfg, builds its Phong and shadow
// materials against the light and registers the drawables. All shader
// fetches finish before any drawable is created.
func NewRenderEngine(ctx context.Context, cfg *config.Scene, dev gpu.Device, logger *slog.Logger) (*RenderEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var src shader.Source = shader.FSSource{FS: shaders.FS}
	if cfg.Shaders.Dir != "" {
		src = shader.FSSource{FS: os.DirFS(cfg.Shaders.Dir)}
	}

	re := &RenderEngine{
		Renderer:   pipeline.NewSceneRenderer(dev),
		dev:        dev,
		logger:     logger,
		orbitSpeed: cfg.Light.OrbitSpeed,
	}
	if err := re.assemble(ctx, cfg, src); err != nil {
		re.Destroy()
		return nil, err
	}

	width, height := dev.DisplaySize()
	re.Camera = scene.NewCameraDegrees(cfg.Camera.FOVDegrees, 1, cfg.Camera.Near, cfg.Camera.Far)
	re.Camera.UpdateAspectRatio(float32(width), float32(height))
	re.Camera.Position = cfg.Camera.Position.Vec3()
	re.Camera.Target = cfg.Camera.Target.Vec3()
	re.Camera.Up = cfg.Camera.Up.Vec3()

	logger.Info("scene assembled", "models", len(cfg.Models), "textures", len(re.textures))
	return re, nil
}

func (re *RenderEngine) assemble(ctx context.Context, cfg *config.Scene, src shader.Source) error {
	proxy, err := shader.FetchPair(ctx, src, shaders.LightCubeVertex, shaders.LightCubeFragment)
	if err != nil {
		return fmt.Errorf("light shaders: %w", err)
	}
	f := cfg.Shadow.Frustum
	re.Light, err = light.NewDirectional(re.dev, light.Options{
		Intensity:        cfg.Light.Intensity,
		Color:            cfg.Light.Color.Vec3(),
		Position:         cfg.Light.Position.Vec3(),
		FocalPoint:       cfg.Light.FocalPoint.Vec3(),
		Up:               cfg.Light.Up.Vec3(),
		CastsShadow:      cfg.Light.CastsShadow,
		ShadowResolution: cfg.Shadow.Resolution,
		Frustum:          light.Frustum{Left: f.Left, Right: f.Right, Bottom: f.Bottom, Top: f.Top, Near: f.Near, Far: f.Far},
	}, proxy)
	if err != nil {
		return err
	}
	if err := re.Renderer.AddLight(re.Light); err != nil {
		return err
	}

	models, err := loadModels(ctx, cfg.Models)
	if err != nil {
		return err
	}

	// Uniforms are captured from the light now; the fetches run in the
	// background until ResolveAll.
	phong := material.Paths{Vertex: shaders.PhongVertex, Fragment: shaders.PhongFragment}
	shadow := material.Paths{Vertex: shaders.ShadowVertex, Fragment: shaders.ShadowFragment}
	var builds []pendingMesh
	for _, m := range models {
		t := core.Transform{Translate: m.cfg.Translate.Vec3(), Scale: m.cfg.Scale.Vec3()}
		for i := range m.meshes {
			data := &m.meshes[i]
			tex, err := data.Material.Texture().Upload(re.dev)
			if err != nil {
				return fmt.Errorf("%s: %w", m.cfg.Path, err)
			}
			re.textures = append(re.textures, tex)
			builds = append(builds, pendingMesh{
				mesh:   data.Mesh(t),
				phong:  material.BuildPhong(ctx, src, phong, tex, data.Material.Specular, re.Light, t),
				shadow: material.BuildShadow(ctx, src, shadow, re.Light, t),
			})
		}
	}

	pending := make([]*material.Pending, 0, 2*len(builds))
	for _, b := range builds {
		pending = append(pending, b.phong, b.shadow)
	}
	mats, err := material.ResolveAll(pending...)
	if err != nil {
		return err
	}

	for i, b := range builds {
		lit, err := pipeline.NewDrawable(re.dev, b.mesh, mats[2*i])
		if err != nil {
			return err
		}
		re.Renderer.AddDrawable(lit)

		// The shadow pass shares the mesh but owns its own buffers.
		caster, err := pipeline.NewDrawable(re.dev, b.mesh, mats[2*i+1])
		if err != nil {
			return err
		}
		re.Renderer.AddShadowDrawable(caster)
		re.logger.Debug("mesh registered", "mesh", b.mesh.Name, "indices", lit.Count())
	}
	return nil
}

// loadModels parses every model file concurrently. The result keeps the
// configured order.
func loadModels(ctx context.Context, cfgs []config.Model) ([]model, error) {
	models := make([]model, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cfgs {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meshes, err := asset.Load(c.Path)
			if err != nil {
				return err
			}
			models[i] = model{cfg: c, meshes: meshes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

// Update advances the light orbit by dt seconds. The shadow MVP baked into
// the materials is not recomputed; only the light position uniform follows.
func (re *RenderEngine) Update(dt float32) {
	if re.orbitSpeed == 0 {
		return
	}
	q := math.QuaternionFromAxisAngle(re.Light.Up, re.orbitSpeed*dt)
	re.Light.Position = q.RotateAround(re.Light.Position, re.Light.FocalPoint)
}

func (re *RenderEngine) Render() error {
	return re.Renderer.Render(re.Camera)
}

// Resize updates the default framebuffer size and the camera aspect.
func (re *RenderEngine) Resize(width, height int) {
	re.dev.SetDisplaySize(width, height)
	if re.Camera != nil {
		re.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

// Destroy releases GPU resources in reverse order of creation.
func (re *RenderEngine) Destroy() {
	re.Renderer.Release()
	for _, t := range re.textures {
		re.dev.DeleteTexture(t)
	}
	re.textures = nil
	if re.Light != nil {
		re.Light.Release()
	}
}
