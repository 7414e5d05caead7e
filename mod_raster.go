package starfield

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/starfield/render/raster"
)

// RasterModule renders off-screen into an image. Useful headless and for
// capturing PNG snapshots.
type RasterModule struct {
	Width  int
	Height int
	// OutDir receives frame-NNNNNN.png snapshots; empty disables writing.
	OutDir string
	// Every writes a snapshot every N frames.
	Every uint64
	// Frames stops the app after N frames; zero runs until stopped.
	Frames uint64
}

type RasterState struct {
	Renderer *raster.Renderer
	OutDir   string
	Every    uint64
	Frames   uint64
	Written  int
}

func (mod RasterModule) Install(app *App, cmd *Commands) {
	w, h := mod.Width, mod.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 360
	}
	if mod.OutDir != "" {
		if err := os.MkdirAll(mod.OutDir, 0o755); err != nil {
			app.Logger().Errorf("Raster output dir: %v", err)
			cmd.Fail(fmt.Errorf("raster output dir: %w", err))
			return
		}
	}
	every := mod.Every
	if every == 0 {
		every = 1
	}

	state := &RasterState{
		Renderer: raster.NewRenderer(w, h, nil),
		OutDir:   mod.OutDir,
		Every:    every,
		Frames:   mod.Frames,
	}
	cmd.AddResources(
		state,
		&Viewport{Width: w, Height: h, PixelRatio: 1, Surface: string(RendererRaster)},
	)
	InputModule{}.Install(app, cmd)

	app.UseSystem(System(func(s *RasterState, t *Time, cmd *Commands) {
		rasterDrawSystem(app, s, t, cmd)
	}).InStage(Render))
	app.UseSystem(System(rasterFrameLimitSystem).InStage(PostRender))
}

func rasterDrawSystem(app *App, s *RasterState, t *Time, cmd *Commands) {
	state, ok := Resource[StarfieldState](app)
	if !ok {
		return
	}
	s.Renderer.Camera = state.Camera
	s.Renderer.Resize(state.Camera.Width, state.Camera.Height)
	s.Renderer.Draw(state.Sim.Positions(), state.Sim.Sizes(), state.Sim.Clock())
	state.Sim.ClearDirty()

	if s.OutDir == "" || t.Frame%s.Every != 0 {
		return
	}
	path := filepath.Join(s.OutDir, fmt.Sprintf("frame-%06d.png", t.Frame))
	if err := s.Renderer.WritePNG(path); err != nil {
		state.Log.Errorf("Snapshot failed: %v", err)
		cmd.Fail(err)
		return
	}
	s.Written++
	state.Log.Debugf("Wrote %s", path)
}

func rasterFrameLimitSystem(s *RasterState, t *Time, cmd *Commands) {
	if s.Frames > 0 && t.Frame >= s.Frames {
		cmd.Exit()
	}
}
