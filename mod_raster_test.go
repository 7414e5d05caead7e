package starfield

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterModule_SnapshotsAndFrameLimit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frames")
	app := NewAppBuilder().UseModule(TimeModule{}).Build()
	app.UseRaster(RasterModule{Width: 64, Height: 48, OutDir: out, Every: 2, Frames: 4})
	app.UseModules(StarfieldModule{Config: smallField()})

	require.NoError(t, app.Run(context.Background()))

	rs, ok := Resource[RasterState](app)
	require.True(t, ok)
	assert.Equal(t, 2, rs.Written)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"frame-000002.png", "frame-000004.png"}, names)

	state, _ := Resource[StarfieldState](app)
	assert.Equal(t, uint64(4), state.Sim.Frame())
	assert.True(t, state.Sim.TornDown())
}

func TestRasterModule_DrawsWithoutOutput(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{}).Build()
	app.UseRaster(RasterModule{Width: 32, Height: 32})
	app.UseModules(StarfieldModule{Config: smallField()})
	t.Cleanup(app.Shutdown)

	state, _ := Resource[StarfieldState](app)
	state.Sim.SetPosition(0, 0, 0, -100)
	state.Sim.Sizes()[0] = 2
	app.Step()

	rs, _ := Resource[RasterState](app)
	assert.Equal(t, 0, rs.Written)
	assert.Greater(t, rs.Renderer.At(16, 16), uint8(0))
}
