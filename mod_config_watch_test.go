package starfield

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/starfield/field"
)

func TestConfigWatchModule_AppliesOnTick(t *testing.T) {
	path := writeConfig(t, "field:\n  global_speed: 0.5\n")
	app, state := newStarfieldApp(t, ConfigWatchModule{Path: path, Debounce: 10 * time.Millisecond})
	_, ok := Resource[ConfigWatcher](app)
	require.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("field:\n  global_speed: 2\n  respawn_depth: 40\n"), 0o644))

	require.Eventually(t, func() bool {
		app.Step()
		return state.Sim.GlobalSpeed() == 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, float32(40), state.Sim.Config().RespawnDepth)
}

func TestConfigWatchModule_IgnoresInvalidFile(t *testing.T) {
	path := writeConfig(t, "field:\n  global_speed: 0.5\n")
	cw, err := NewConfigWatcher(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cw.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("field:\n  count: -5\n"), 0o644))
	cw.reload()

	select {
	case <-cw.Updates():
		t.Fatal("invalid config must not publish")
	default:
	}
}

func TestConfigWatcher_KeepsLatest(t *testing.T) {
	path := writeConfig(t, "")
	cw, err := NewConfigWatcher(path, 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cw.Stop() })

	slow, fast := float32(0.1), float32(3)
	cw.publish(field.Tunables{GlobalSpeed: &slow})
	cw.publish(field.Tunables{GlobalSpeed: &fast})

	got := <-cw.Updates()
	require.NotNil(t, got.GlobalSpeed)
	assert.Equal(t, float32(3), *got.GlobalSpeed)
}

func TestConfigWatchModule_MissingDirDisablesReload(t *testing.T) {
	app := NewAppBuilder().
		UseModule(ConfigWatchModule{Path: "/does/not/exist/starfield.yaml"}).
		Build()

	_, ok := Resource[ConfigWatcher](app)
	assert.False(t, ok)
	assert.NoError(t, app.Err())
}
