package field

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid starfield config")

// Config controls pool size, spawn volume and motion of a Simulator.
// Zero values are not defaults; start from DefaultConfig.
type Config struct {
	Count int     `yaml:"count"`
	Bound float32 `yaml:"bound"` // half-width of the spawn cube

	VelocityMin float32 `yaml:"velocity_min"`
	VelocityMax float32 `yaml:"velocity_max"`
	SizeMin     float32 `yaml:"size_min"`
	SizeMax     float32 `yaml:"size_max"`

	GlobalSpeed  float32 `yaml:"global_speed"`
	RespawnDepth float32 `yaml:"respawn_depth"` // particles past this depth are recycled
	FarDepth     float32 `yaml:"far_depth"`     // depth recycled particles restart from
	ClockStep    float32 `yaml:"clock_step"`

	Seed uint64 `yaml:"seed"` // 0 seeds from the wall clock
}

func DefaultConfig() Config {
	return Config{
		Count:        25000,
		Bound:        1000,
		VelocityMin:  0.1,
		VelocityMax:  0.6,
		SizeMin:      0.5,
		SizeMax:      2.5,
		GlobalSpeed:  0.5,
		RespawnDepth: 100,
		FarDepth:     -1000,
		ClockStep:    0.01,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case c.Bound <= 0:
		return fmt.Errorf("%w: bound must be positive, got %g", ErrInvalidConfig, c.Bound)
	case c.VelocityMin > c.VelocityMax:
		return fmt.Errorf("%w: velocity range [%g, %g] is inverted", ErrInvalidConfig, c.VelocityMin, c.VelocityMax)
	case c.SizeMin > c.SizeMax:
		return fmt.Errorf("%w: size range [%g, %g] is inverted", ErrInvalidConfig, c.SizeMin, c.SizeMax)
	case c.GlobalSpeed < 0:
		return fmt.Errorf("%w: global speed must not be negative, got %g", ErrInvalidConfig, c.GlobalSpeed)
	case c.FarDepth >= c.RespawnDepth:
		return fmt.Errorf("%w: far depth %g must be behind respawn depth %g", ErrInvalidConfig, c.FarDepth, c.RespawnDepth)
	case c.ClockStep < 0:
		return fmt.Errorf("%w: clock step must not be negative, got %g", ErrInvalidConfig, c.ClockStep)
	}
	return nil
}

// Tunables are the parameters that may change while a Simulator is running.
// Nil fields are left untouched.
type Tunables struct {
	GlobalSpeed  *float32
	RespawnDepth *float32
	FarDepth     *float32
	ClockStep    *float32
}

// TunablesFrom returns Tunables that set every live parameter from c.
func TunablesFrom(c Config) Tunables {
	return Tunables{
		GlobalSpeed:  &c.GlobalSpeed,
		RespawnDepth: &c.RespawnDepth,
		FarDepth:     &c.FarDepth,
		ClockStep:    &c.ClockStep,
	}
}
