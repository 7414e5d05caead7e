package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap/zapcore"

	"github.com/gekko3d/starfield"
)

func init() {
	// GLFW must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "starfield:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	renderer := flag.String("renderer", "", "Renderer: wgpu, terminal or raster")
	count := flag.Int("count", 0, "Number of stars")
	speed := flag.Float64("speed", 0, "Global speed multiplier")
	seed := flag.Uint64("seed", 0, "Random seed (0 = time based)")
	debug := flag.Bool("debug", false, "Enable debug logging and profiler output")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	frames := flag.Uint64("frames", 0, "Stop after N frames (raster renderer)")
	outDir := flag.String("out", "", "Write PNG snapshots to this directory (raster renderer)")
	watch := flag.Bool("watch", false, "Reload tunables when the config file changes")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	flag.Parse()

	cfg, err := starfield.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "renderer":
			cfg.Renderer = *renderer
		case "count":
			cfg.Field.Count = *count
		case "speed":
			cfg.Field.GlobalSpeed = float32(*speed)
		case "seed":
			cfg.Field.Seed = *seed
		case "debug":
			cfg.Log.Debug = *debug
		case "metrics-addr":
			cfg.Metrics.Addr = *metricsAddr
		case "frames":
			cfg.Raster.Frames = *frames
		case "out":
			cfg.Raster.OutDir = *outDir
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	name, err := starfield.ParseRendererName(cfg.Renderer)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(name, *logFile, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	app := starfield.NewAppBuilder().
		UseModule(
			starfield.LoggingModule{Logger: logger},
			starfield.TimeModule{MaxFPS: cfg.MaxFPS},
		).
		Build()

	switch name {
	case starfield.RendererWGPU:
		app.UseWGPU(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	case starfield.RendererTerminal:
		app.UseTerminal()
	case starfield.RendererRaster:
		app.UseRaster(starfield.RasterModule{
			Width:  cfg.Raster.Width,
			Height: cfg.Raster.Height,
			OutDir: cfg.Raster.OutDir,
			Every:  cfg.Raster.Every,
			Frames: cfg.Raster.Frames,
		})
	}

	app.UseModules(starfield.MetricsModule{Addr: cfg.Metrics.Addr})
	if *watch {
		if *configPath == "" {
			logger.Warnf("-watch needs -config, hot reload disabled")
		} else {
			app.UseModules(starfield.ConfigWatchModule{Path: *configPath})
		}
	}
	app.UseModules(starfield.StarfieldModule{
		Config:       cfg.Field,
		FovY:         cfg.Camera.FovY,
		ProfileEvery: cfg.Log.ProfileEvery,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}

// newLogger keeps the terminal renderer's screen clean by discarding logs
// unless a log file is given.
func newLogger(name starfield.RendererName, path string, debug bool) (*starfield.ZapLogger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return starfield.NewZapLoggerTo(zapcore.Lock(f), "starfield", debug), func() { _ = f.Close() }, nil
	}
	if name == starfield.RendererTerminal {
		return starfield.NewZapLoggerTo(zapcore.AddSync(io.Discard), "starfield", debug), func() {}, nil
	}
	return starfield.NewZapLogger("starfield", debug), func() {}, nil
}
