// Package asset imports models from OBJ+MTL and glTF files into the flat
// per-mesh arrays and material descriptors the renderer consumes.
package asset

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"shadow-renderer/core"
	"shadow-renderer/math"
	"shadow-renderer/scene"
)

// DefaultSpecular matches the dim highlight of an MTL material without Ks.
var DefaultSpecular = math.NewVec3(0.0667, 0.0667, 0.0667)

// MaterialDesc is the surface description of an imported mesh.
type MaterialDesc struct {
	Name     string
	Diffuse  core.Color
	Specular math.Vec3
	// ColorTexture, when set, replaces Diffuse.
	ColorTexture *scene.Texture
}

func defaultMaterial(name string) MaterialDesc {
	return MaterialDesc{Name: name, Diffuse: core.ColorWhite, Specular: DefaultSpecular}
}

// Texture returns the colour texture, or a 1x1 texture of Diffuse.
func (m MaterialDesc) Texture() *scene.Texture {
	if m.ColorTexture != nil {
		return m.ColorTexture
	}
	return scene.NewSolidTexture(m.Name+"/Kd", m.Diffuse)
}

// MeshData is one imported mesh. Normals and Texcoords may be nil.
type MeshData struct {
	Name      string
	Positions []float32
	Normals   []float32
	Texcoords []float32
	Indices   []uint32
	Material  MaterialDesc
}

// Mesh wraps the arrays in a scene.Mesh placed by t.
func (d *MeshData) Mesh(t core.Transform) *scene.Mesh {
	return scene.NewMesh(d.Name, d.Positions, d.Normals, d.Texcoords, d.Indices, t)
}

// Load dispatches on the file extension: .obj, .gltf or .glb.
func Load(path string) ([]MeshData, error) {
	var (
		meshes []MeshData
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		meshes, err = LoadOBJ(path)
	case ".gltf", ".glb":
		meshes, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("asset %q: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, err
	}

	vertices := 0
	for _, m := range meshes {
		vertices += len(m.Positions) / 3
	}
	slog.Debug("asset loaded", "path", path, "meshes", len(meshes), "vertices", vertices)
	return meshes, nil
}
