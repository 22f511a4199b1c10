package sim

import (
	"errors"
	"reflect"
	"strings"

	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
)

// ErrTuningBusy is returned when the tuning queue is full.
var ErrTuningBusy = errors.New("sim: tuning queue full")

// TuningParams holds the values that can be changed while driving.
// Only non-zero values are applied.
type TuningParams struct {
	// Engine
	MaxForwardKmh   float64 `json:"max_forward_kmh"`
	MaxReverseKmh   float64 `json:"max_reverse_kmh"`
	MaxForce        float64 `json:"max_force"`
	BoostMultiplier float64 `json:"boost_multiplier"`
	HandbrakeForce  float64 `json:"handbrake_force"`

	// Steering
	MaxSteerDeg            float64 `json:"max_steer_deg"`
	SteeringResponsiveness float64 `json:"steering_responsiveness"`
	SteeringSpeed          float64 `json:"steering_speed"` // Input ramp, 1/s
	DriftMultiplier        float64 `json:"drift_multiplier"`

	// Stability
	TiltThresholdDeg float64 `json:"tilt_threshold_deg"`
	Stiffness        float64 `json:"stiffness"`
}

// TuningKeys lists the JSON keys TuningParams accepts, in field order.
func TuningKeys() []string {
	t := reflect.TypeOf(TuningParams{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys = append(keys, name)
	}
	return keys
}

// tuningFrom reads the adjustable subset out of full configs.
func tuningFrom(in input.Config, vc vehicle.Config) TuningParams {
	return TuningParams{
		MaxForwardKmh:          vc.Engine.MaxForwardKmh,
		MaxReverseKmh:          vc.Engine.MaxReverseKmh,
		MaxForce:               vc.Engine.MaxForce,
		BoostMultiplier:        vc.Engine.BoostMultiplier,
		HandbrakeForce:         vc.Engine.HandbrakeForce,
		MaxSteerDeg:            vc.Steering.MaxAngleDeg,
		SteeringResponsiveness: vc.Steering.Responsiveness,
		SteeringSpeed:          in.SteeringSpeed,
		DriftMultiplier:        in.DriftMultiplier,
		TiltThresholdDeg:       vc.Stability.TiltThresholdDeg,
		Stiffness:              vc.Stability.Stiffness,
	}
}

// apply writes the non-zero fields of p onto copies of the configs.
func (p TuningParams) apply(in input.Config, vc vehicle.Config) (input.Config, vehicle.Config) {
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&vc.Engine.MaxForwardKmh, p.MaxForwardKmh)
	set(&vc.Engine.MaxReverseKmh, p.MaxReverseKmh)
	set(&vc.Engine.MaxForce, p.MaxForce)
	set(&vc.Engine.BoostMultiplier, p.BoostMultiplier)
	set(&vc.Engine.HandbrakeForce, p.HandbrakeForce)
	set(&vc.Steering.MaxAngleDeg, p.MaxSteerDeg)
	set(&vc.Steering.Responsiveness, p.SteeringResponsiveness)
	set(&in.SteeringSpeed, p.SteeringSpeed)
	set(&in.DriftMultiplier, p.DriftMultiplier)
	set(&vc.Stability.TiltThresholdDeg, p.TiltThresholdDeg)
	set(&vc.Stability.Stiffness, p.Stiffness)
	return in, vc
}

type tuneRequest struct {
	input   input.Config
	vehicle vehicle.Config
}

// Tune validates p against the latest requested tuning and queues it for the
// next tick. It is safe to call from any goroutine.
func (s *Session) Tune(p TuningParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, vc := p.apply(s.wantInput, s.wantVehicle)
	if err := errors.Join(in.Validate(), vc.Validate()); err != nil {
		return err
	}
	select {
	case s.tuning <- tuneRequest{input: in, vehicle: vc}:
	default:
		return ErrTuningBusy
	}
	s.wantInput, s.wantVehicle = in, vc
	return nil
}

// Tuning returns the most recently requested tuning. It may be ahead of the
// tick loop by up to one tick.
func (s *Session) Tuning() TuningParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tuningFrom(s.wantInput, s.wantVehicle)
}

// drainTuning applies queued requests. Only the tick goroutine calls it.
func (s *Session) drainTuning() {
	for {
		select {
		case req := <-s.tuning:
			if err := s.cond.SetConfig(req.input); err != nil {
				s.logger.Warn("tuning rejected", "error", err)
				continue
			}
			if err := s.ctrl.SetConfig(req.vehicle); err != nil {
				s.logger.Warn("tuning rejected", "error", err)
				continue
			}
			s.logger.Info("tuning applied", "params", tuningFrom(req.input, req.vehicle))
		default:
			return
		}
	}
}
