package input

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("input: invalid config")

// Config holds the input conditioning rates. Rates are per second.
type Config struct {
	// Timing
	MaxDT float64 `mapstructure:"max_dt" json:"max_dt"` // Stalled frames are clamped to this

	// Steering
	SteeringSpeed      float64 `mapstructure:"steering_speed" json:"steering_speed"`           // Approach rate toward target
	SteeringReturn     float64 `mapstructure:"steering_return" json:"steering_return"`         // Decay rate toward 0 on release
	SnapEpsilon        float64 `mapstructure:"snap_epsilon" json:"snap_epsilon"`               // Snap to exactly 0 inside this
	PointerSensitivity float64 `mapstructure:"pointer_sensitivity" json:"pointer_sensitivity"` // Pointer-x scale
	PointerDeadZone    float64 `mapstructure:"pointer_dead_zone" json:"pointer_dead_zone"`     // Pointer counts as released inside this

	// Pedals
	ThrottleRise     float64 `mapstructure:"throttle_rise" json:"throttle_rise"`
	ThrottleFall     float64 `mapstructure:"throttle_fall" json:"throttle_fall"`
	BrakeRise        float64 `mapstructure:"brake_rise" json:"brake_rise"`
	BrakeFall        float64 `mapstructure:"brake_fall" json:"brake_fall"`
	ReverseThreshold float64 `mapstructure:"reverse_threshold" json:"reverse_threshold"` // Brake above this requests reverse

	// Drift and spin
	DriftBuild           float64 `mapstructure:"drift_build" json:"drift_build"`
	DriftDecay           float64 `mapstructure:"drift_decay" json:"drift_decay"`
	DriftThreshold       float64 `mapstructure:"drift_threshold" json:"drift_threshold"`   // Intensity above this amplifies steering
	DriftMultiplier      float64 `mapstructure:"drift_multiplier" json:"drift_multiplier"` // Steering gain while drifting
	SpinBuild            float64 `mapstructure:"spin_build" json:"spin_build"`
	SpinDecay            float64 `mapstructure:"spin_decay" json:"spin_decay"`
	MaxSpin              float64 `mapstructure:"max_spin" json:"max_spin"`
	SpinThreshold        float64 `mapstructure:"spin_threshold" json:"spin_threshold"`                 // Spin factor above this may take over steering
	SpinSteerLimit       float64 `mapstructure:"spin_steer_limit" json:"spin_steer_limit"`             // Only when |steering| is below this
	ExtendedSteering     float64 `mapstructure:"extended_steering" json:"extended_steering"`           // Steering bound while drifting
	DefaultSpinDirection float64 `mapstructure:"default_spin_direction" json:"default_spin_direction"` // +1 clockwise, -1 counter-clockwise
}

// DefaultConfig returns the recommended keyboard/mouse tuning.
func DefaultConfig() Config {
	return Config{
		MaxDT: 0.1,

		SteeringSpeed:      3.0,
		SteeringReturn:     5.0,
		SnapEpsilon:        0.1,
		PointerSensitivity: 1.5,
		PointerDeadZone:    0.02,

		ThrottleRise:     1.5,
		ThrottleFall:     3.0,
		BrakeRise:        2.0,
		BrakeFall:        4.0,
		ReverseThreshold: 0.9,

		DriftBuild:           2.0,
		DriftDecay:           3.0,
		DriftThreshold:       0.2,
		DriftMultiplier:      1.8,
		SpinBuild:            1.2,
		SpinDecay:            2.5,
		MaxSpin:              3.0,
		SpinThreshold:        0.5,
		SpinSteerLimit:       0.3,
		ExtendedSteering:     3.0,
		DefaultSpinDirection: 1,
	}
}

// GentleConfig returns a tuning with slower pedals and no spin takeover.
func GentleConfig() Config {
	cfg := DefaultConfig()
	cfg.SteeringSpeed = 2.0
	cfg.ThrottleRise = 0.8
	cfg.DriftMultiplier = 1.3
	cfg.MaxSpin = 0.5 // never reaches SpinThreshold
	return cfg
}

// Validate checks that every rate is usable.
func (c Config) Validate() error {
	var errs []error
	positive := map[string]float64{
		"max_dt":           c.MaxDT,
		"steering_speed":   c.SteeringSpeed,
		"steering_return":  c.SteeringReturn,
		"throttle_rise":    c.ThrottleRise,
		"throttle_fall":    c.ThrottleFall,
		"brake_rise":       c.BrakeRise,
		"brake_fall":       c.BrakeFall,
		"drift_build":      c.DriftBuild,
		"drift_decay":      c.DriftDecay,
		"spin_build":       c.SpinBuild,
		"spin_decay":       c.SpinDecay,
		"drift_multiplier": c.DriftMultiplier,
	}
	for name, v := range positive {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	if c.ReverseThreshold <= 0 || c.ReverseThreshold >= 1 {
		errs = append(errs, fmt.Errorf("%w: reverse_threshold must be in (0,1), got %v", ErrInvalidConfig, c.ReverseThreshold))
	}
	if c.ExtendedSteering < 1 {
		errs = append(errs, fmt.Errorf("%w: extended_steering must be >= 1, got %v", ErrInvalidConfig, c.ExtendedSteering))
	}
	if c.MaxSpin < 0 || c.MaxSpin > c.ExtendedSteering {
		errs = append(errs, fmt.Errorf("%w: max_spin must be in [0, extended_steering], got %v", ErrInvalidConfig, c.MaxSpin))
	}
	return errors.Join(errs...)
}
