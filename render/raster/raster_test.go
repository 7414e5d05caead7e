package raster

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/starfield/render/core"
)

func TestRenderer_DrawsDiscAtCentre(t *testing.T) {
	r := NewRenderer(64, 64, core.NewCamera())

	drawn := r.Draw([]float32{0, 0, -100}, []float32{1}, 0)

	assert.Equal(t, 1, drawn)
	assert.Greater(t, r.At(32, 32), uint8(0))
	assert.Greater(t, r.At(31, 31), uint8(0))
	assert.Equal(t, uint8(0), r.At(0, 0))
	assert.Equal(t, uint8(0), r.At(63, 63))
}

func TestRenderer_ClearsBetweenFrames(t *testing.T) {
	r := NewRenderer(64, 64, nil)

	r.Draw([]float32{0, 0, -100}, []float32{1}, 0)
	require.Greater(t, r.At(32, 32), uint8(0))

	drawn := r.Draw([]float32{0, 0, 10}, []float32{1}, 0)
	assert.Equal(t, 0, drawn)
	assert.Equal(t, uint8(0), r.At(32, 32))
}

func TestRenderer_AdditiveSaturates(t *testing.T) {
	r := NewRenderer(32, 32, nil)

	positions := make([]float32, 0, 60)
	sizes := make([]float32, 0, 20)
	for i := 0; i < 20; i++ {
		positions = append(positions, 0, 0, -20)
		sizes = append(sizes, 2)
	}
	r.Draw(positions, sizes, 0)

	assert.Equal(t, uint8(255), r.Image.RGBAAt(16, 16).R)
}

func TestRenderer_ResizeIdempotent(t *testing.T) {
	cam := core.NewCamera()
	r := NewRenderer(64, 48, cam)

	assert.False(t, r.Resize(64, 48))
	assert.False(t, r.Resize(0, 10))
	assert.True(t, r.Resize(128, 48))
	assert.Equal(t, 128, r.Image.Rect.Dx())
	assert.Equal(t, 128, cam.Width)
}

func TestRenderer_WritePNG(t *testing.T) {
	r := NewRenderer(16, 8, nil)
	r.Draw([]float32{0, 0, -100}, []float32{1}, 0)

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, r.WritePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}
