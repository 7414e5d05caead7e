package starfield

type Key int

const (
	KeyEscape Key = iota
	KeyQ
	KeyPlus
	KeyMinus
	KeySpace
	keyCount
)

// Input is the per-frame keyboard state shared by every renderer backend.
// Backends feed it in Prelude or PreUpdate; it is cleared in Finale.
type Input struct {
	Pressed     [keyCount]bool
	JustPressed [keyCount]bool
}

// SetKey records a key level from a polling backend.
func (in *Input) SetKey(k Key, down bool) {
	if k < 0 || k >= keyCount {
		return
	}
	if down && !in.Pressed[k] {
		in.JustPressed[k] = true
	}
	in.Pressed[k] = down
}

// Tap records a discrete key press from an event-driven backend.
func (in *Input) Tap(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	in.JustPressed[k] = true
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Input](app); ok {
		return
	}
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputClearSystem).
			InStage(Finale),
	)
}

func inputClearSystem(input *Input) {
	input.JustPressed = [keyCount]bool{}
}
