package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_SetViewportIdempotent(t *testing.T) {
	cam := NewCamera()

	assert.True(t, cam.SetViewport(1280, 720))
	aspect := cam.Aspect
	assert.InDelta(t, 1280.0/720.0, aspect, 1e-6)

	assert.False(t, cam.SetViewport(1280, 720))
	assert.Equal(t, aspect, cam.Aspect)
	assert.Equal(t, 1280, cam.Width)
	assert.Equal(t, 720, cam.Height)
}

func TestCamera_SetViewportIgnoresEmpty(t *testing.T) {
	cam := NewCamera()
	cam.SetViewport(800, 600)

	assert.False(t, cam.SetViewport(0, 600))
	assert.False(t, cam.SetViewport(800, -1))
	assert.Equal(t, 800, cam.Width)
	assert.Equal(t, 600, cam.Height)
}

func TestProjector_CenterAndBehind(t *testing.T) {
	cam := NewCamera()
	cam.SetViewport(800, 600)
	p := cam.Projector()

	got, ok := p.Project(mgl32.Vec3{0, 0, -100})
	require.True(t, ok)
	assert.InDelta(t, 400, got.X, 1e-3)
	assert.InDelta(t, 300, got.Y, 1e-3)
	assert.InDelta(t, 100, got.Depth, 1e-3)
	assert.InDelta(t, 100, got.Distance, 1e-3)

	_, ok = p.Project(mgl32.Vec3{0, 0, 50})
	assert.False(t, ok, "points behind the camera are not drawn")

	_, ok = p.Project(mgl32.Vec3{0, 0, -2000})
	assert.False(t, ok, "points past the far plane are not drawn")
}

func TestProjector_UpIsTop(t *testing.T) {
	cam := NewCamera()
	cam.SetViewport(800, 600)
	p := cam.Projector()

	got, ok := p.Project(mgl32.Vec3{0, 10, -100})
	require.True(t, ok)
	assert.Less(t, got.Y, float32(300))
}

func TestProjector_PointSize(t *testing.T) {
	cam := NewCamera()
	cam.PixelRatio = 2
	cam.SetViewport(100, 100)
	p := cam.Projector()

	assert.InDelta(t, 2*1*300.0/150.0, p.PointSize(1, 150), 1e-5)
	assert.Equal(t, float32(0), p.PointSize(1, 0))
}

func TestBrightness(t *testing.T) {
	assert.Equal(t, float32(1), Brightness(0, 1000))
	assert.InDelta(t, 0.75, Brightness(250, 1000), 1e-6)
	assert.Equal(t, float32(0), Brightness(2000, 1000))
}

func TestPackInstances(t *testing.T) {
	positions := []float32{1, 2, 3, 4, 5, 6}
	sizes := []float32{0.5, 1.5}

	inst := PackInstances(nil, positions, sizes)
	require.Len(t, inst, 2)
	assert.Equal(t, StarInstance{Pos: [3]float32{4, 5, 6}, Size: 1.5}, inst[1])

	positions[5] = -7
	UpdatePositions(inst, positions)
	assert.Equal(t, float32(-7), inst[1].Pos[2])
	assert.Equal(t, float32(1.5), inst[1].Size)
}
