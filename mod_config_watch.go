package starfield

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/starfield/field"
)

// ConfigWatcher reloads a config file when it changes and publishes the
// live tunables. Only the latest update is kept.
type ConfigWatcher struct {
	log      Logger
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	updates  chan field.Tunables
}

func NewConfigWatcher(path string, debounce time.Duration, log Logger) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	if log == nil {
		log = NewNopLogger()
	}

	return &ConfigWatcher{
		log:      log,
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		updates:  make(chan field.Tunables, 1),
	}, nil
}

func (cw *ConfigWatcher) Updates() <-chan field.Tunables { return cw.updates }

// Start runs the watch loop until ctx is done or the watcher is stopped.
func (cw *ConfigWatcher) Start(ctx context.Context) {
	debounceTimer := time.NewTimer(cw.debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	go func() {
		defer debounceTimer.Stop()
		for {
			select {
			case event, ok := <-cw.watcher.Events:
				if !ok {
					return
				}
				if cw.shouldProcessEvent(event) {
					cw.log.Debugf("Config change detected: %s %s", event.Name, event.Op)
					debounceTimer.Reset(cw.debounce)
				}

			case err, ok := <-cw.watcher.Errors:
				if !ok {
					return
				}
				cw.log.Errorf("Config watcher error: %v", err)

			case <-debounceTimer.C:
				cw.reload()

			case <-ctx.Done():
				return
			}
		}
	}()
	cw.log.Infof("Watching %s for changes", cw.path)
}

func (cw *ConfigWatcher) Stop() error {
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) == cw.path
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.log.Warnf("Ignoring config change: %v", err)
		return
	}
	cw.publish(field.TunablesFrom(cfg.Field))
}

func (cw *ConfigWatcher) publish(t field.Tunables) {
	for {
		select {
		case cw.updates <- t:
			return
		default:
			select {
			case <-cw.updates:
			default:
			}
		}
	}
}

// ConfigWatchModule applies tunables from a watched config file at the start
// of each frame.
type ConfigWatchModule struct {
	Path     string
	Debounce time.Duration
}

func (mod ConfigWatchModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	cw, err := NewConfigWatcher(mod.Path, mod.Debounce, log)
	if err != nil {
		log.Warnf("Config hot reload disabled: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	cw.Start(ctx)
	app.OnShutdown(func() {
		cancel()
		if err := cw.Stop(); err != nil {
			log.Warnf("Config watcher stop: %v", err)
		}
	})

	cmd.AddResources(cw)
	app.UseSystem(System(func(cw *ConfigWatcher) {
		configReloadSystem(app, cw)
	}).InStage(PreUpdate))
}

func configReloadSystem(app *App, cw *ConfigWatcher) {
	select {
	case t := <-cw.updates:
		state, ok := Resource[StarfieldState](app)
		if !ok {
			return
		}
		if err := state.Sim.Apply(t); err != nil {
			state.Log.Warnf("Rejected reloaded tunables: %v", err)
			return
		}
		state.Log.Infof("Applied reloaded config: speed=%.3f respawn=%g far=%g",
			state.Sim.GlobalSpeed(), state.Sim.Config().RespawnDepth, state.Sim.Config().FarDepth)
	default:
	}
}
