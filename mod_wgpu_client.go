package starfield

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	rtapp "github.com/gekko3d/starfield/render/app"
)

// WgpuModule renders the starfield into a GLFW window with WebGPU.
type WgpuModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
}

type WgpuState struct {
	Window   *WindowState
	Renderer *rtapp.App
}

var keyToGlfw = map[Key][]glfw.Key{
	KeyEscape: {glfw.KeyEscape},
	KeyQ:      {glfw.KeyQ},
	KeyPlus:   {glfw.KeyEqual, glfw.KeyKPAdd},
	KeyMinus:  {glfw.KeyMinus, glfw.KeyKPSubtract},
	KeySpace:  {glfw.KeySpace},
}

func (mod WgpuModule) Install(app *App, cmd *Commands) {
	log := app.Logger()

	if err := ensureWindowResource(app, mod.WindowWidth, mod.WindowHeight, mod.WindowTitle); err != nil {
		log.Errorf("WGPU renderer unavailable: %v", err)
		cmd.Fail(err)
		return
	}
	ws, _ := Resource[WindowState](app)

	renderer := rtapp.NewApp(ws.Window(), nil)
	if err := renderer.Init(); err != nil {
		renderer.Release()
		log.Errorf("WGPU init failed: %v", err)
		cmd.Fail(fmt.Errorf("wgpu init: %w", err))
		return
	}
	app.OnShutdown(renderer.Release)

	w, h := ws.FramebufferSize()
	cmd.AddResources(
		&WgpuState{Window: ws, Renderer: renderer},
		&Viewport{Width: w, Height: h, PixelRatio: renderer.Camera.PixelRatio, Surface: string(RendererWGPU)},
	)
	InputModule{}.Install(app, cmd)

	app.UseSystem(System(wgpuPollSystem).InStage(Prelude))
	app.UseSystem(System(func(s *WgpuState, t *Time) {
		wgpuRenderSystem(app, s, t)
	}).InStage(Render))
}

// wgpuPollSystem pumps GLFW events into Input and Viewport.
func wgpuPollSystem(s *WgpuState, viewport *Viewport, input *Input, cmd *Commands) {
	glfw.PollEvents()
	if s.Window.ShouldClose() {
		cmd.Exit()
		return
	}

	win := s.Window.Window()
	for key, glfwKeys := range keyToGlfw {
		down := false
		for _, gk := range glfwKeys {
			if win.GetKey(gk) == glfw.Press {
				down = true
			}
		}
		input.SetKey(key, down)
	}

	w, h := s.Window.FramebufferSize()
	if viewport.Resize(w, h) {
		s.Renderer.Resize(w, h)
		cmd.Logger().Debugf("Surface resized to %dx%d", w, h)
	}
}

func wgpuRenderSystem(app *App, s *WgpuState, t *Time) {
	state, ok := Resource[StarfieldState](app)
	if !ok {
		return
	}
	r := s.Renderer
	r.Camera = state.Camera

	if state.Sim.Dirty() {
		if err := r.Upload(state.Sim.Positions(), state.Sim.Sizes()); err != nil {
			state.Log.Errorf("Upload failed: %v", err)
			return
		}
		state.Sim.ClearDirty()
	}
	if err := r.Render(state.Sim.Clock()); err != nil {
		state.Log.Warnf("Render failed on frame %d: %v", t.Frame, err)
	}
}
