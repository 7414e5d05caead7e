// Package term draws the starfield onto a tcell screen, one star per cell.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/starfield/render/core"
)

// CellAspect is the height/width ratio of a terminal cell.
const CellAspect = 2

var glyphs = []rune{'.', '·', '+', '*', '@'}

type cell struct {
	brightness float32
	glyph      rune
}

type Renderer struct {
	Screen tcell.Screen
	Camera *core.Camera

	width, height int
	cells         []cell
}

func NewRenderer(screen tcell.Screen, camera *core.Camera) *Renderer {
	if camera == nil {
		camera = core.NewCamera()
	}
	r := &Renderer{Screen: screen, Camera: camera}
	r.Resize()
	return r
}

// Resize re-reads the screen size. The camera sees a surface twice as tall
// as the cell grid so that stars stay round.
func (r *Renderer) Resize() (int, int, bool) {
	w, h := r.Screen.Size()
	if w == r.width && h == r.height {
		return w, h, false
	}
	r.width, r.height = w, h
	r.cells = make([]cell, w*h)
	r.Camera.SetViewport(w, h*CellAspect)
	return w, h, true
}

func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Draw projects every star, keeps the brightest per cell and shows the frame.
func (r *Renderer) Draw(positions, sizes []float32) {
	for i := range r.cells {
		r.cells[i] = cell{}
	}

	proj := r.Camera.Projector()
	for i, size := range sizes {
		i3 := i * 3
		p, ok := proj.Project(mgl32.Vec3{positions[i3], positions[i3+1], positions[i3+2]})
		if !ok {
			continue
		}
		col := int(p.X)
		row := int(p.Y) / CellAspect
		if col < 0 || col >= r.width || row < 0 || row >= r.height {
			continue
		}

		b := core.Brightness(p.Distance, proj.Far())
		if b <= 0 {
			continue
		}
		c := &r.cells[row*r.width+col]
		if b > c.brightness {
			c.brightness = b
			c.glyph = glyphFor(proj.PointSize(size, p.Depth))
		}
	}

	r.Screen.Clear()
	for row := 0; row < r.height; row++ {
		for col := 0; col < r.width; col++ {
			c := r.cells[row*r.width+col]
			if c.glyph == 0 {
				continue
			}
			r.Screen.SetContent(col, row, c.glyph, nil, styleFor(c.brightness))
		}
	}
	r.Screen.Show()
}

// glyphFor picks a heavier glyph for larger on-screen stars.
func glyphFor(pointSize float32) rune {
	switch {
	case pointSize < 0.75:
		return glyphs[0]
	case pointSize < 1.5:
		return glyphs[1]
	case pointSize < 3:
		return glyphs[2]
	case pointSize < 6:
		return glyphs[3]
	default:
		return glyphs[4]
	}
}

func styleFor(brightness float32) tcell.Style {
	v := int32(40 + 215*brightness)
	if v > 255 {
		v = 255
	}
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(v, v, v)).
		Background(tcell.ColorBlack)
}
