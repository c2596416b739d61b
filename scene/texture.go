package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"shadow-renderer/core"
	"shadow-renderer/gpu"
)

// Texture holds CPU-side RGBA8 pixels, 4 bytes per pixel, row-major.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte
}

// LoadTexture reads a PNG, JPEG, BMP, TIFF or WebP file from disk.
// With flipY the bottom image row is stored first, which is the origin
// OBJ texture coordinates assume.
func LoadTexture(path string, flipY bool) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()
	return DecodeTexture(path, f, flipY)
}

// DecodeTexture decodes any registered image format into RGBA8.
func DecodeTexture(name string, r io.Reader, flipY bool) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)

	tex := &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
	if flipY {
		tex.flipRows()
	}
	return tex, nil
}

func (t *Texture) flipRows() {
	stride := t.Width * 4
	tmp := make([]byte, stride)
	for top, bottom := 0, t.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := t.Pixels[top*stride : (top+1)*stride]
		b := t.Pixels[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// NewSolidTexture creates a 1x1 texture of a constant colour.
func NewSolidTexture(name string, c core.Color) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)},
	}
}

func toByte(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(v*255 + 0.5)
}

// Upload creates a GPU texture from the pixels.
func (t *Texture) Upload(dev gpu.Device) (gpu.Texture, error) {
	if len(t.Pixels) == 0 {
		return 0, fmt.Errorf("texture %q has no pixel data", t.Name)
	}
	tex, err := dev.NewTexture(t.Width, t.Height, t.Pixels)
	if err != nil {
		return 0, fmt.Errorf("upload texture %q: %w", t.Name, err)
	}
	return tex, nil
}
