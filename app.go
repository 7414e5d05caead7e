package starfield

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	modules   []Module
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	shutdownHooks []func()
	shutdownOnce  sync.Once

	stopped atomic.Bool
	errMu   sync.Mutex
	exitErr error
}

func newApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules immediately, in order.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		app.modules = append(app.modules, module)
		module.Install(app, cmd)
	}
	return app
}

// Run executes frames until Stop is called, a system asks to exit or ctx is
// cancelled. Shutdown hooks run before Run returns.
func (app *App) Run(ctx context.Context) error {
	defer app.Shutdown()

	app.Logger().Infof("Running %d stages", len(app.stages))
	for app.Step() {
		if ctx.Err() != nil {
			app.Logger().Infof("Context done, stopping")
			break
		}
	}
	return app.Err()
}

// Step runs every stage once. It reports whether the app should keep running.
func (app *App) Step() bool {
	if app.stopped.Load() {
		return false
	}
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	return !app.stopped.Load()
}

// Stop asks the run loop to exit after the current frame. Safe for concurrent use.
func (app *App) Stop() {
	app.stopped.Store(true)
}

func (app *App) Stopped() bool { return app.stopped.Load() }

func (app *App) fail(err error) {
	app.errMu.Lock()
	if app.exitErr == nil {
		app.exitErr = err
	}
	app.errMu.Unlock()
	app.Stop()
}

// Err returns the error a system stopped the app with, if any.
func (app *App) Err() error {
	app.errMu.Lock()
	defer app.errMu.Unlock()
	return app.exitErr
}

// OnShutdown registers fn to run when the app shuts down. Hooks run in
// reverse registration order.
func (app *App) OnShutdown(fn func()) {
	app.shutdownHooks = append(app.shutdownHooks, fn)
}

// Shutdown runs the shutdown hooks once.
func (app *App) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.Stop()
		for i := len(app.shutdownHooks) - 1; i >= 0; i-- {
			app.shutdownHooks[i]()
		}
	})
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer resource", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(t reflect.Type) bool {
	_, ok := app.resources[t]
	return ok
}

// Resource looks up a resource by its type.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfLogger   = reflect.TypeFor[Logger]()
)

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)

		if argType == typeOfLogger {
			args[i] = reflect.ValueOf(app.Logger())
			continue
		}
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}

		underlyingType := argType.Elem()
		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
