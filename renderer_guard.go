package starfield

import (
	"fmt"
)

// RendererTag marks that a renderer has been installed into the App.
// Only one renderer should be installed at a time.
type RendererTag struct {
	Name string
}

// Viewport is the drawing surface provided by the installed renderer, sized
// in surface pixels. The starfield only starts when one exists.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float32
	Surface    string
}

// Resize updates the size and reports whether it changed. Non-positive sizes
// are ignored.
func (v *Viewport) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if v.Width == width && v.Height == height {
		return false
	}
	v.Width, v.Height = width, height
	return true
}

// ensureSingleRenderer enforces a single renderer invariant.
// If a different renderer is already installed, it panics with a clear message.
func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}
