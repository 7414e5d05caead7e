package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera sitting at Position and looking down -Z.
type Camera struct {
	Position mgl32.Vec3
	FovY     float32 // degrees
	Aspect   float32
	Near     float32
	Far      float32

	// Output surface size in pixels.
	Width      int
	Height     int
	PixelRatio float32
}

func NewCamera() *Camera {
	return &Camera{
		Position:   mgl32.Vec3{0, 0, 0},
		FovY:       75,
		Aspect:     1,
		Near:       0.1,
		Far:        1000,
		PixelRatio: 1,
	}
}

// SetViewport updates aspect and surface size. Non-positive sizes are ignored.
// Reports whether anything changed.
func (c *Camera) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if c.Width == width && c.Height == height {
		return false
	}
	c.Width = width
	c.Height = height
	c.Aspect = float32(width) / float32(height)
	return true
}

func (c *Camera) View() mgl32.Mat4 {
	eye := c.Position
	target := eye.Add(mgl32.Vec3{0, 0, -1})
	return mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1.0
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Projected is a point mapped to surface pixels.
type Projected struct {
	X, Y     float32
	Depth    float32 // distance in front of the camera along the view axis
	Distance float32 // euclidean distance from the camera
}

// Projector caches the matrices needed to project many points in one frame.
type Projector struct {
	view     mgl32.Mat4
	viewProj mgl32.Mat4
	width    float32
	height   float32
	ratio    float32
	near     float32
	far      float32
}

func (c *Camera) Projector() Projector {
	ratio := c.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	view := c.View()
	return Projector{
		view:     view,
		viewProj: c.Projection().Mul4(view),
		width:    float32(c.Width),
		height:   float32(c.Height),
		ratio:    ratio,
		near:     c.Near,
		far:      c.Far,
	}
}

// Project maps a world position to pixel coordinates. ok is false for points
// behind the near plane, past the far plane, or outside the surface.
func (p Projector) Project(pos mgl32.Vec3) (Projected, bool) {
	clip := p.viewProj.Mul4x1(pos.Vec4(1.0))
	if clip.W() < p.near {
		return Projected{}, false
	}

	ndc := clip.Vec3().Mul(1.0 / clip.W())
	if ndc.Z() > 1 {
		return Projected{}, false
	}

	x := (ndc.X()*0.5 + 0.5) * p.width
	y := (1.0 - (ndc.Y()*0.5 + 0.5)) * p.height

	viewPos := p.view.Mul4x1(pos.Vec4(1.0)).Vec3()
	out := Projected{
		X:        x,
		Y:        y,
		Depth:    -viewPos.Z(),
		Distance: viewPos.Len(),
	}

	if x < 0 || x > p.width || y < 0 || y > p.height {
		return out, false
	}
	return out, true
}

// PointSize is the on-screen diameter in pixels for a star of the given size
// at the given view depth.
func (p Projector) PointSize(size, depth float32) float32 {
	if depth <= 0 {
		return 0
	}
	return size * (300.0 / depth) * p.ratio
}

func (p Projector) Far() float32 { return p.far }

// Brightness fades linearly from 1 at the camera to 0 at far.
func Brightness(distance, far float32) float32 {
	if far <= 0 {
		return 0
	}
	b := 1.0 - distance/far
	return float32(math.Max(0, math.Min(1, float64(b))))
}
