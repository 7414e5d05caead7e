package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/starfield/render/core"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestRenderer_DrawsCentreStar(t *testing.T) {
	screen := newScreen(t, 80, 24)
	r := NewRenderer(screen, core.NewCamera())

	r.Draw([]float32{0, 0, -100}, []float32{1})

	mainc, _, _, _ := screen.GetContent(40, 12)
	assert.Equal(t, '*', mainc)

	mainc, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', mainc)
}

func TestRenderer_SkipsStarsBehindCamera(t *testing.T) {
	screen := newScreen(t, 40, 20)
	r := NewRenderer(screen, core.NewCamera())

	r.Draw([]float32{0, 0, 50}, []float32{2})

	for row := 0; row < 20; row++ {
		for col := 0; col < 40; col++ {
			mainc, _, _, _ := screen.GetContent(col, row)
			require.Equal(t, ' ', mainc, "cell %d,%d", col, row)
		}
	}
}

func TestRenderer_BrightestWins(t *testing.T) {
	screen := newScreen(t, 80, 24)
	r := NewRenderer(screen, core.NewCamera())

	// same cell, the nearer star is brighter and larger
	r.Draw([]float32{0, 0, -900, 0, 0, -50}, []float32{0.5, 2})

	mainc, _, _, _ := screen.GetContent(40, 12)
	assert.Equal(t, '@', mainc)
}

func TestRenderer_ResizeIdempotent(t *testing.T) {
	screen := newScreen(t, 80, 24)
	cam := core.NewCamera()
	r := NewRenderer(screen, cam)

	_, _, changed := r.Resize()
	assert.False(t, changed)
	assert.Equal(t, 48, cam.Height)

	screen.SetSize(100, 30)
	w, h, changed := r.Resize()
	assert.True(t, changed)
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
	assert.Equal(t, 60, cam.Height)
	assert.InDelta(t, 100.0/60.0, cam.Aspect, 1e-6)
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, '.', glyphFor(0.1))
	assert.Equal(t, '+', glyphFor(2))
	assert.Equal(t, '@', glyphFor(10))
}
