package starfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRendererName(t *testing.T) {
	for _, in := range []string{"wgpu", "Terminal", " raster "} {
		_, err := ParseRendererName(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseRendererName("opengl")
	require.ErrorIs(t, err, ErrUnknownRenderer)
	assert.Contains(t, err.Error(), "opengl")
}

func TestEnsureSingleRenderer(t *testing.T) {
	app := newApp()
	ensureSingleRenderer(app, "raster")
	ensureSingleRenderer(app, "raster")

	assert.PanicsWithValue(t, "Multiple renderers installed: raster and terminal", func() {
		ensureSingleRenderer(app, "terminal")
	})
}

func TestViewport_Resize(t *testing.T) {
	v := &Viewport{Width: 10, Height: 10}
	assert.False(t, v.Resize(10, 10))
	assert.False(t, v.Resize(0, 5))
	assert.True(t, v.Resize(20, 10))
	assert.Equal(t, 20, v.Width)
}
