package starfield

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/starfield/field"
)

// Config is the file-level configuration of the starfield binary.
type Config struct {
	Renderer string        `yaml:"renderer"`
	MaxFPS   int           `yaml:"max_fps"`
	Field    field.Config  `yaml:"field"`
	Camera   CameraConfig  `yaml:"camera"`
	Window   WindowConfig  `yaml:"window"`
	Raster   RasterConfig  `yaml:"raster"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Log      LogConfig     `yaml:"log"`
}

type CameraConfig struct {
	FovY float32 `yaml:"fov"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type RasterConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	OutDir string `yaml:"out_dir"`
	Every  uint64 `yaml:"every"`
	Frames uint64 `yaml:"frames"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Debug        bool   `yaml:"debug"`
	ProfileEvery uint64 `yaml:"profile_every"`
}

func DefaultConfig() Config {
	return Config{
		Renderer: string(RendererWGPU),
		MaxFPS:   60,
		Field:    field.DefaultConfig(),
		Camera:   CameraConfig{FovY: 75},
		Window:   WindowConfig{Width: 1280, Height: 720, Title: "Starfield"},
		Raster:   RasterConfig{Width: 640, Height: 360, Every: 1},
		Log:      LogConfig{ProfileEvery: 300},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return cfg, fmt.Errorf("invalid config %s: %s", path, strings.Join(typeErr.Errors, "; "))
		}
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return err
	}
	if _, err := ParseRendererName(c.Renderer); err != nil {
		return err
	}
	switch {
	case c.MaxFPS < 0:
		return fmt.Errorf("%w: max_fps must not be negative, got %d", field.ErrInvalidConfig, c.MaxFPS)
	case c.Camera.FovY <= 0 || c.Camera.FovY >= 180:
		return fmt.Errorf("%w: camera fov must be in (0, 180), got %g", field.ErrInvalidConfig, c.Camera.FovY)
	case c.Raster.Width < 0 || c.Raster.Height < 0:
		return fmt.Errorf("%w: raster size %dx%d is negative", field.ErrInvalidConfig, c.Raster.Width, c.Raster.Height)
	}
	return nil
}
