package starfield

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/starfield/field"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_EmptyPathIsDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
renderer: raster
max_fps: 30
field:
  count: 100
  global_speed: 1.5
  respawn_depth: 50
camera:
  fov: 60
raster:
  out_dir: shots
  frames: 10
metrics:
  addr: ":9090"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "raster", cfg.Renderer)
	assert.Equal(t, 30, cfg.MaxFPS)
	assert.Equal(t, 100, cfg.Field.Count)
	assert.Equal(t, float32(1.5), cfg.Field.GlobalSpeed)
	assert.Equal(t, float32(50), cfg.Field.RespawnDepth)
	assert.Equal(t, float32(1000), cfg.Field.Bound, "unset keys keep defaults")
	assert.Equal(t, float32(-1000), cfg.Field.FarDepth)
	assert.Equal(t, float32(60), cfg.Camera.FovY)
	assert.Equal(t, "shots", cfg.Raster.OutDir)
	assert.Equal(t, uint64(10), cfg.Raster.Frames)
	assert.Equal(t, 640, cfg.Raster.Width)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
		msg    string
	}{
		{name: "unknown key", body: "field:\n  colour: red\n", msg: "colour"},
		{name: "bad type", body: "field:\n  count: many\n", msg: "line 2"},
		{name: "invalid field", body: "field:\n  count: -1\n", target: field.ErrInvalidConfig},
		{name: "thresholds", body: "field:\n  far_depth: 200\n", target: field.ErrInvalidConfig},
		{name: "renderer", body: "renderer: vulkan\n", target: ErrUnknownRenderer},
		{name: "fov", body: "camera:\n  fov: 0\n", target: field.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
