package starfield

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/gekko3d/starfield/render/term"
)

// TerminalModule renders the starfield as text on a tcell screen.
type TerminalModule struct {
	// Screen overrides the controlling terminal; tests pass a simulation screen.
	Screen tcell.Screen
}

type TerminalState struct {
	Screen   tcell.Screen
	Renderer *term.Renderer

	events chan tcell.Event
}

func (mod TerminalModule) Install(app *App, cmd *Commands) {
	log := app.Logger()

	screen := mod.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			log.Errorf("Terminal unavailable: %v", err)
			cmd.Fail(fmt.Errorf("terminal: %w", err))
			return
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		log.Errorf("Terminal init failed: %v", err)
		cmd.Fail(fmt.Errorf("terminal init: %w", err))
		return
	}
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.Clear()

	renderer := term.NewRenderer(screen, nil)
	w, h := renderer.Size()

	state := &TerminalState{
		Screen:   screen,
		Renderer: renderer,
		events:   make(chan tcell.Event, 64),
	}
	cmd.AddResources(
		state,
		&Viewport{Width: w, Height: h * term.CellAspect, PixelRatio: 1, Surface: string(RendererTerminal)},
	)
	InputModule{}.Install(app, cmd)

	// PollEvent returns nil once the screen is finalized, which ends the pump.
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(state.events)
				return
			}
			state.events <- ev
		}
	}()
	app.OnShutdown(screen.Fini)

	app.UseSystem(System(terminalEventSystem).InStage(Prelude))
	app.UseSystem(System(func(s *TerminalState) {
		terminalDrawSystem(app, s)
	}).InStage(Render))
}

// terminalEventSystem drains pending tcell events without blocking.
func terminalEventSystem(s *TerminalState, viewport *Viewport, input *Input, cmd *Commands) {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			handleTerminalEvent(ev, s, viewport, input, cmd)
		default:
			return
		}
	}
}

func handleTerminalEvent(ev tcell.Event, s *TerminalState, viewport *Viewport, input *Input, cmd *Commands) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			cmd.Exit()
		case tcell.KeyEscape:
			input.Tap(KeyEscape)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				input.Tap(KeyQ)
				input.Tap(KeyEscape)
			case '+', '=':
				input.Tap(KeyPlus)
			case '-', '_':
				input.Tap(KeyMinus)
			case ' ':
				input.Tap(KeySpace)
			}
		}
	case *tcell.EventResize:
		s.Screen.Sync()
		if w, h, changed := s.Renderer.Resize(); changed {
			viewport.Resize(w, h*term.CellAspect)
			cmd.Logger().Debugf("Terminal resized to %dx%d cells", w, h)
		}
	}
}

func terminalDrawSystem(app *App, s *TerminalState) {
	state, ok := Resource[StarfieldState](app)
	if !ok {
		return
	}
	s.Renderer.Camera = state.Camera
	s.Renderer.Draw(state.Sim.Positions(), state.Sim.Sizes())
	state.Sim.ClearDirty()
}
