package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/starfield/render/core"
	"github.com/gekko3d/starfield/render/gpu"
)

// App owns the WebGPU device and surface for a GLFW window and draws the
// starfield pass into it.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Stars  *gpu.StarfieldRenderPass
	Camera *core.Camera

	Profiler *Profiler

	uploaded       bool
	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window, camera *core.Camera) *App {
	if camera == nil {
		camera = core.NewCamera()
	}
	return &App{
		Window:   window,
		Camera:   camera,
		Profiler: NewProfiler(),
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Starfield Device",
	})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("surface reports no usable formats")
	}

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync paces the tick
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Stars, err = gpu.NewStarfieldRenderPass(a.Device, a.Config.Format)
	if err != nil {
		return fmt.Errorf("starfield pass: %w", err)
	}

	xs, _ := a.Window.GetContentScale()
	if xs > 0 {
		a.Camera.PixelRatio = xs
	}
	a.Camera.SetViewport(width, height)
	a.LastRenderTime = glfw.GetTime()

	return nil
}

// Resize reconfigures the swapchain. Repeating the current size is a no-op.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if a.Config.Width == uint32(w) && a.Config.Height == uint32(h) {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
}

// Upload pushes particle data to the GPU. The first call uploads sizes too;
// later calls only refresh positions.
func (a *App) Upload(positions, sizes []float32) error {
	a.Profiler.BeginScope("Upload")
	defer a.Profiler.EndScope("Upload")

	if !a.uploaded || int(a.Stars.InstanceCount) != len(sizes) {
		if err := a.Stars.UploadStars(a.Queue, positions, sizes); err != nil {
			return err
		}
		a.uploaded = true
		return nil
	}
	return a.Stars.UploadPositions(a.Queue, positions)
}

func (a *App) Render(clock float32) error {
	a.Profiler.BeginScope("Render")
	defer a.Profiler.EndScope("Render")

	if a.Config.Width == 0 || a.Config.Height == 0 {
		return nil
	}

	err := a.Stars.UpdateFrame(a.Queue, gpu.FrameUniforms{
		ViewProj:   a.Camera.ViewProjection(),
		View:       a.Camera.View(),
		Viewport:   [2]float32{float32(a.Config.Width), float32(a.Config.Height)},
		Time:       clock,
		Far:        a.Camera.Far,
		PixelRatio: a.Camera.PixelRatio,
	})
	if err != nil {
		return fmt.Errorf("frame uniforms: %w", err)
	}

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	a.Stars.Draw(rPass)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("render pass end: %w", err)
	}
	rPass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()

	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	a.FrameCount++
	a.FPSTime += now - a.LastRenderTime
	if a.FPSTime >= 1.0 {
		a.FPS = float64(a.FrameCount) / a.FPSTime
		a.FrameCount = 0
		a.FPSTime = 0
	}
	a.LastRenderTime = now
	a.Profiler.SetCount("Stars", int(a.Stars.InstanceCount))

	return nil
}

// Release frees GPU objects in reverse creation order.
func (a *App) Release() {
	if a.Stars != nil {
		a.Stars.Release()
		a.Stars = nil
	}
	if a.Queue != nil {
		a.Queue.Release()
		a.Queue = nil
	}
	if a.Device != nil {
		a.Device.Release()
		a.Device = nil
	}
	if a.Adapter != nil {
		a.Adapter.Release()
		a.Adapter = nil
	}
	if a.Surface != nil {
		a.Surface.Release()
		a.Surface = nil
	}
	if a.Instance != nil {
		a.Instance.Release()
		a.Instance = nil
	}
}
