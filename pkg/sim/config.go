package sim

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a session config fails validation.
var ErrInvalidConfig = errors.New("sim: invalid config")

// Config controls the tick loop.
type Config struct {
	TickRate    float64 `mapstructure:"tick_rate" json:"tick_rate"`         // Hz
	FixedStep   float64 `mapstructure:"fixed_step" json:"fixed_step"`       // Physics sub-step, seconds
	MaxSubSteps int     `mapstructure:"max_sub_steps" json:"max_sub_steps"` // Per tick
	TuningQueue int     `mapstructure:"tuning_queue" json:"tuning_queue"`   // Pending tuning requests
}

// DefaultConfig returns a 60 Hz loop over a 120 Hz solver.
func DefaultConfig() Config {
	return Config{
		TickRate:    60,
		FixedStep:   1.0 / 120.0,
		MaxSubSteps: 4,
		TuningQueue: 8,
	}
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if !(c.TickRate > 0) {
		errs = append(errs, fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalidConfig, c.TickRate))
	}
	if !(c.FixedStep > 0) {
		errs = append(errs, fmt.Errorf("%w: fixed_step must be positive, got %v", ErrInvalidConfig, c.FixedStep))
	}
	if c.MaxSubSteps < 1 {
		errs = append(errs, fmt.Errorf("%w: max_sub_steps must be at least 1, got %d", ErrInvalidConfig, c.MaxSubSteps))
	}
	if c.TuningQueue < 1 {
		errs = append(errs, fmt.Errorf("%w: tuning_queue must be at least 1, got %d", ErrInvalidConfig, c.TuningQueue))
	}
	return errors.Join(errs...)
}

// Period is the wall-clock interval between ticks.
func (c Config) Period() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// DT is the nominal tick length in seconds.
func (c Config) DT() float64 {
	return 1 / c.TickRate
}
