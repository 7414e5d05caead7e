package starfield

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64

	frameStart time.Time
}

// TimeModule provides the Time resource. MaxFPS > 0 caps the frame rate.
// Installing it twice keeps the first instance.
type TimeModule struct {
	MaxFPS int
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[Time](app); ok {
		return
	}
	now := time.Now()
	cmd.AddResources(&Time{
		Time:       now,
		frameStart: now,
	})
	app.UseSystem(System(timeSystem).InStage(Prelude))

	if mod.MaxFPS > 0 {
		budget := time.Second / time.Duration(mod.MaxFPS)
		app.UseSystem(System(func(t *Time) {
			frameCapSystem(t, budget)
		}).InStage(Finale))
	}
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	if timeResource.Frame > 0 {
		timeResource.Dt = now.Sub(timeResource.Time)
	}
	timeResource.Time = now
	timeResource.frameStart = now
	timeResource.Frame++
}

func frameCapSystem(t *Time, budget time.Duration) {
	if spent := time.Since(t.frameStart); spent < budget {
		time.Sleep(budget - spent)
	}
}
