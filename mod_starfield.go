package starfield

import (
	"fmt"

	"github.com/gekko3d/starfield/field"
	rtapp "github.com/gekko3d/starfield/render/app"
	"github.com/gekko3d/starfield/render/core"
)

// speedStep is the factor applied to the global speed per +/- key press.
const speedStep = 1.25

// StarfieldModule runs a particle field on whatever surface the installed
// renderer provides. Without a Viewport it does nothing.
type StarfieldModule struct {
	Config field.Config
	// Source overrides the seeded random source.
	Source field.Source
	// FovY in degrees; zero keeps the camera default.
	FovY float32
	// ProfileEvery logs profiler timings every N frames in debug mode.
	ProfileEvery uint64
}

type StarfieldState struct {
	Sim      *field.Simulator
	Camera   *core.Camera
	Profiler *rtapp.Profiler
	Log      Logger

	// Recycled is the number of particles recycled by the last tick.
	Recycled      int
	TotalRecycled uint64
}

func (mod StarfieldModule) Install(app *App, cmd *Commands) {
	log := app.Logger()

	viewport, ok := Resource[Viewport](app)
	if !ok {
		log.Infof("No drawing surface available, starfield disabled")
		return
	}

	rng := mod.Source
	if rng == nil {
		rng = field.NewSource(mod.Config.Seed)
	}
	sim, err := field.New(mod.Config, rng)
	if err != nil {
		log.Errorf("Starfield init failed: %v", err)
		cmd.Fail(fmt.Errorf("starfield: %w", err))
		return
	}

	cam := core.NewCamera()
	if mod.FovY > 0 {
		cam.FovY = mod.FovY
	}
	if viewport.PixelRatio > 0 {
		cam.PixelRatio = viewport.PixelRatio
	}
	cam.SetViewport(viewport.Width, viewport.Height)

	state := &StarfieldState{
		Sim:      sim,
		Camera:   cam,
		Profiler: rtapp.NewProfiler(),
		Log:      log.With("field", sim.ID().String()),
	}
	cmd.AddResources(state)
	InputModule{}.Install(app, cmd)

	app.UseSystem(System(starfieldResizeSystem).InStage(PreUpdate))
	app.UseSystem(System(starfieldInputSystem).InStage(PreUpdate))
	app.UseSystem(System(starfieldTickSystem).InStage(Update))

	if every := mod.ProfileEvery; every > 0 {
		app.UseSystem(System(func(t *Time, s *StarfieldState) {
			starfieldProfileSystem(t, s, every)
		}).InStage(PostRender))
	}

	app.OnShutdown(func() {
		sim.Teardown()
		state.Log.Infof("Starfield torn down after %d frames", sim.Frame())
	})

	state.Log.Infof("Starfield started: %d stars on %s surface %dx%d",
		sim.Len(), viewport.Surface, viewport.Width, viewport.Height)
}

func starfieldResizeSystem(viewport *Viewport, state *StarfieldState) {
	if viewport.PixelRatio > 0 {
		state.Camera.PixelRatio = viewport.PixelRatio
	}
	if state.Camera.SetViewport(viewport.Width, viewport.Height) {
		state.Log.Debugf("Camera resized to %dx%d", viewport.Width, viewport.Height)
	}
}

func starfieldInputSystem(input *Input, state *StarfieldState, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		state.Log.Infof("Exit requested")
		cmd.Exit()
		return
	}

	speed := state.Sim.GlobalSpeed()
	switch {
	case input.JustPressed[KeyPlus]:
		speed *= speedStep
	case input.JustPressed[KeyMinus]:
		speed /= speedStep
	default:
		return
	}
	state.Sim.SetGlobalSpeed(speed)
	state.Log.Infof("Global speed %.3f", state.Sim.GlobalSpeed())
}

func starfieldTickSystem(state *StarfieldState) {
	state.Profiler.BeginScope("Tick")
	state.Recycled = state.Sim.Tick()
	state.Profiler.EndScope("Tick")

	state.TotalRecycled += uint64(state.Recycled)
	state.Profiler.SetCount("Stars", state.Sim.Len())
}

func starfieldProfileSystem(t *Time, state *StarfieldState, every uint64) {
	if t.Frame%every != 0 || !state.Log.DebugEnabled() {
		return
	}
	state.Log.Debugf("frame %d: %s recycled=%d", t.Frame, state.Profiler.Summary(), state.TotalRecycled)
	state.Profiler.Reset()
}
