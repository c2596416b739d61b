package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadow-renderer/core"
	"shadow-renderer/math"
	"shadow-renderer/scene"
)

const quadOBJ = `# unit quad
mtllib quad.mtl
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
o floor
usemtl red
f 1/1/1 2/2/1 3/3/1 4/4/1
o marker
usemtl missing
f -4 -3 -2
`

const quadMTL = `newmtl red
Kd 1 0 0
Ks 0.5 0.5 0.5
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadOBJ(t *testing.T) {
	dir := writeFiles(t, map[string]string{"quad.obj": quadOBJ, "quad.mtl": quadMTL})

	meshes, err := Load(filepath.Join(dir, "quad.obj"))
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	floor := meshes[0]
	assert.Equal(t, "floor", floor.Name)
	assert.Len(t, floor.Positions, 12)
	assert.Len(t, floor.Normals, 12)
	assert.Len(t, floor.Texcoords, 8)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, floor.Indices)
	assert.Equal(t, core.Color{R: 1, A: 1}, floor.Material.Diffuse)
	assert.Equal(t, math.NewVec3(0.5, 0.5, 0.5), floor.Material.Specular)
	assert.NoError(t, floor.Mesh(core.NewTransform()).Validate())

	marker := meshes[1]
	assert.Equal(t, "marker", marker.Name)
	assert.Len(t, marker.Indices, 3)
	assert.Nil(t, marker.Texcoords)
	assert.Equal(t, core.ColorWhite, marker.Material.Diffuse)
	assert.Equal(t, DefaultSpecular, marker.Material.Specular)
	// No vn references, so normals are generated. The winding is clockwise
	// seen from above.
	require.Len(t, marker.Normals, 9)
	assert.InDelta(t, -1, marker.Normals[1], 1e-6)
}

func TestLoadOBJErrors(t *testing.T) {
	tests := map[string]string{
		"empty":        "# nothing\n",
		"bad vertex":   "v 1 x 0\n",
		"short face":   "v 0 0 0\nf 1 1\n",
		"out of range": "v 0 0 0\nf 1 2 3\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"m.obj": body})
			_, err := LoadOBJ(filepath.Join(dir, "m.obj"))
			assert.Error(t, err)
		})
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("model.fbx")
	assert.ErrorContains(t, err, "unsupported")
}

func TestMaterialTexture(t *testing.T) {
	m := MaterialDesc{Name: "m", Diffuse: core.Color{R: 0, G: 1, B: 0, A: 1}}
	tex := m.Texture()
	assert.Equal(t, 1, tex.Width)
	assert.Equal(t, []byte{0, 255, 0, 255}, tex.Pixels)

	own := scene.NewSolidTexture("own", core.ColorBlack)
	m.ColorTexture = own
	assert.Same(t, own, m.Texture())
}

func TestLoadGLB(t *testing.T) {
	doc := &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0"},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
	}
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{
		Mesh:        gltf.Index(0),
		Translation: [3]float64{10, 0, 0},
		Scale:       [3]float64{2, 2, 2},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	meshes, err := Load(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "tri_p0", m.Name)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	// Node scale and translation are baked in.
	assert.InDeltaSlice(t, []float32{10, 0, 0, 12, 0, 0, 10, 2, 0}, m.Positions, 1e-5)
	// Generated normal faces +z.
	assert.InDeltaSlice(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals, 1e-5)
	assert.Equal(t, core.ColorWhite, m.Material.Diffuse)
}
