package starfield

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRenderer is returned by ParseRendererName for unsupported names.
var ErrUnknownRenderer = errors.New("unknown renderer")

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererTerminal RendererName = "terminal"
	RendererRaster   RendererName = "raster"
)

var rendererNames = []RendererName{RendererWGPU, RendererTerminal, RendererRaster}

// Renderer is an alias to Module for semantic clarity in APIs.
type Renderer interface {
	Module
}

func ParseRendererName(s string) (RendererName, error) {
	name := RendererName(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range rendererNames {
		if name == known {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownRenderer, s, rendererNames)
}

// UseRenderer installs exactly one renderer module, enforcing exclusivity via ensureSingleRenderer.
// Usage:
//
//	app.UseRenderer(RendererTerminal, TerminalModule{})
func (app *App) UseRenderer(name RendererName, mod Renderer) *App {
	ensureSingleRenderer(app, string(name))
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseWGPU selects the WebGPU renderer with a window of the given size.
func (app *App) UseWGPU(width, height int, title string) *App {
	return app.UseRenderer(RendererWGPU, WgpuModule{
		WindowWidth:  width,
		WindowHeight: height,
		WindowTitle:  title,
	})
}

// UseTerminal selects the tcell renderer on the controlling terminal.
func (app *App) UseTerminal() *App {
	return app.UseRenderer(RendererTerminal, TerminalModule{})
}

// UseRaster selects the headless renderer.
func (app *App) UseRaster(mod RasterModule) *App {
	return app.UseRenderer(RendererRaster, mod)
}
