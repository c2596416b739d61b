package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadow-renderer/core"
	"shadow-renderer/gpu/gputest"
	"shadow-renderer/math"
)

func TestCube(t *testing.T) {
	c := Cube(core.NewTransform())
	assert.Equal(t, 24, c.VertexCount())
	assert.Len(t, c.Indices, 36)
	assert.False(t, c.HasNormals())
	assert.False(t, c.HasTexcoords())
	assert.Equal(t, []string{PositionAttribute}, c.Attributes())
	assert.NoError(t, c.Validate())

	for i, p := range c.Positions {
		if p != 1 && p != -1 {
			t.Fatalf("position %d = %v, want ±1", i, p)
		}
	}
}

func TestMeshAttributesOrder(t *testing.T) {
	m := NewMesh("tri",
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		[]float32{0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 2}, core.NewTransform())
	assert.Equal(t, []string{PositionAttribute, NormalAttribute, TexcoordAttribute}, m.Attributes())
	assert.NoError(t, m.Validate())
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh *Mesh
	}{
		{"ragged positions", &Mesh{Positions: []float32{0, 0}}},
		{"short normals", &Mesh{Positions: []float32{0, 0, 0}, Normals: []float32{0, 1}}},
		{"short texcoords", &Mesh{Positions: []float32{0, 0, 0}, Texcoords: []float32{0}}},
		{"partial triangle", &Mesh{Positions: []float32{0, 0, 0}, Indices: []uint32{0, 0}}},
		{"index out of range", &Mesh{Positions: []float32{0, 0, 0}, Indices: []uint32{0, 0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.mesh.Validate())
		})
	}
}

func TestCameraWorldMatrixInvertsView(t *testing.T) {
	c := NewCameraDegrees(75, 16.0/9.0, 1e-2, 1000)
	c.Position = math.NewVec3(30, 30, 30)

	world := c.GetWorldMatrix()
	// The camera sits at the world matrix's translation.
	origin := world.MulVec3(math.Vec3Zero)
	assert.InDelta(t, 30, origin.X, 1e-3)
	assert.InDelta(t, 30, origin.Y, 1e-3)
	assert.InDelta(t, 30, origin.Z, 1e-3)

	got := c.GetViewMatrix().ToMgl()
	want := mgl32.LookAtV(c.Position.ToMgl(), c.Target.ToMgl(), c.Up.ToMgl())
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4)
	}
	assert.Equal(t, c.Position, c.GetPosition())
}

func TestCameraAspect(t *testing.T) {
	c := NewCamera(1, 1, 0.1, 10)
	c.UpdateAspectRatio(800, 400)
	assert.Equal(t, float32(2), c.Aspect)
	c.UpdateAspectRatio(800, 0)
	assert.Equal(t, float32(2), c.Aspect)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255}) // top
	img.Set(0, 1, color.RGBA{0, 0, 255, 255}) // bottom
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoadTextureFlip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.png")
	writePNG(t, path)

	tex, err := LoadTexture(path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, tex.Pixels)

	flipped, err := LoadTexture(path, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, flipped.Pixels)
}

func TestLoadTextureErrors(t *testing.T) {
	_, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png"), false)
	assert.Error(t, err)

	_, err = DecodeTexture("junk", bytes.NewReader([]byte("not an image")), false)
	assert.Error(t, err)
}

func TestSolidTextureUpload(t *testing.T) {
	tex := NewSolidTexture("kd", core.Color{R: 1, G: 0.5, B: 0, A: 1})
	assert.Equal(t, []byte{255, 128, 0, 255}, tex.Pixels)

	dev := gputest.New()
	id, err := tex.Upload(dev)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, dev.LiveTextures())

	_, err = (&Texture{Name: "empty"}).Upload(dev)
	assert.Error(t, err)
}
