// Package raster is a CPU renderer for the starfield. It draws soft,
// additively blended discs into an RGBA image, which makes it usable
// headless and for snapshots.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/gekko3d/starfield/render/core"
)

// discSegments is the polygon resolution used for star discs.
const discSegments = 16

// minDiscRadius is the radius below which a star is plotted as one pixel.
const minDiscRadius = 0.75

type Renderer struct {
	Camera *core.Camera
	Image  *image.RGBA

	rast *vector.Rasterizer
	mask *image.Alpha
}

func NewRenderer(width, height int, camera *core.Camera) *Renderer {
	if camera == nil {
		camera = core.NewCamera()
	}
	r := &Renderer{
		Camera: camera,
		rast:   vector.NewRasterizer(1, 1),
		mask:   image.NewAlpha(image.Rect(0, 0, 1, 1)),
	}
	r.Resize(width, height)
	return r
}

// Resize reallocates the output image when the size changes.
func (r *Renderer) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if r.Image != nil && r.Image.Rect.Dx() == width && r.Image.Rect.Dy() == height {
		return false
	}
	r.Image = image.NewRGBA(image.Rect(0, 0, width, height))
	r.Camera.SetViewport(width, height)
	return true
}

// Draw clears the image and composites every visible star. clock modulates
// brightness the same way the GPU shader does.
func (r *Renderer) Draw(positions, sizes []float32, clock float32) int {
	clear(r.Image.Pix)

	proj := r.Camera.Projector()
	drawn := 0
	for i, size := range sizes {
		i3 := i * 3
		p, ok := proj.Project(mgl32.Vec3{positions[i3], positions[i3+1], positions[i3+2]})
		if !ok {
			continue
		}
		b := core.Brightness(p.Distance, proj.Far())
		if b <= 0 {
			continue
		}
		b *= shimmer(clock, b)

		radius := proj.PointSize(size, p.Depth) * 0.5
		if radius < minDiscRadius {
			r.addPixel(int(p.X), int(p.Y), b*radius/minDiscRadius)
		} else {
			r.disc(p.X, p.Y, radius, b)
		}
		drawn++
	}
	return drawn
}

func shimmer(clock, brightness float32) float32 {
	return 0.9 + 0.1*float32(math.Sin(float64(clock*4+brightness*40)))
}

// disc rasterizes a circle into the scratch mask and adds it to the image
// with a radial falloff.
func (r *Renderer) disc(cx, cy, radius, brightness float32) {
	x0 := int(math.Floor(float64(cx - radius)))
	y0 := int(math.Floor(float64(cy - radius)))
	x1 := int(math.Ceil(float64(cx + radius)))
	y1 := int(math.Ceil(float64(cy + radius)))
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return
	}
	if !image.Rect(x0, y0, x1, y1).Overlaps(r.Image.Rect) {
		return
	}

	lcx, lcy := cx-float32(x0), cy-float32(y0)
	r.rast.Reset(w, h)
	for k := 0; k <= discSegments; k++ {
		a := 2 * math.Pi * float64(k) / discSegments
		px := lcx + radius*float32(math.Cos(a))
		py := lcy + radius*float32(math.Sin(a))
		if k == 0 {
			r.rast.MoveTo(px, py)
		} else {
			r.rast.LineTo(px, py)
		}
	}
	r.rast.ClosePath()

	mask := r.scratch(w, h)
	r.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	diameter := 2 * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cov := mask.Pix[y*mask.Stride+x]
			if cov == 0 {
				continue
			}
			dx := float32(x) + 0.5 - lcx
			dy := float32(y) + 0.5 - lcy
			d := float32(math.Hypot(float64(dx), float64(dy))) / diameter
			falloff := 1 - smoothstep(0, 0.5, d)
			r.addPixel(x0+x, y0+y, brightness*falloff*float32(cov)/255)
		}
	}
}

func (r *Renderer) scratch(w, h int) *image.Alpha {
	if r.mask.Stride*r.mask.Rect.Dy() < w*h {
		r.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	} else {
		r.mask.Rect = image.Rect(0, 0, w, h)
		r.mask.Stride = w
	}
	clear(r.mask.Pix[:w*h])
	return r.mask
}

// addPixel adds a gray value with saturation, the CPU analogue of additive blending.
func (r *Renderer) addPixel(x, y int, v float32) {
	if v <= 0 || !(image.Point{X: x, Y: y}).In(r.Image.Rect) {
		return
	}
	add := uint32(v * 255)
	off := r.Image.PixOffset(x, y)
	for c := 0; c < 4; c++ {
		s := uint32(r.Image.Pix[off+c]) + add
		if s > 255 {
			s = 255
		}
		r.Image.Pix[off+c] = uint8(s)
	}
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// At returns the gray level of a pixel; handy for tests and probes.
func (r *Renderer) At(x, y int) uint8 {
	return color.GrayModel.Convert(r.Image.RGBAAt(x, y)).(color.Gray).Y
}

// WritePNG encodes the current image to path.
func (r *Renderer) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, r.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
