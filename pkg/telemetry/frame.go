// Package telemetry carries read-only per-tick vehicle state to displays and metrics.
package telemetry

import (
	"fmt"
	"strings"
)

// Frame is one tick of published vehicle state.
type Frame struct {
	SessionID string  `json:"session_id"`
	Tick      uint64  `json:"tick"`
	Time      float64 `json:"time"` // simulated seconds

	SpeedKmh      float64 `json:"speed_kmh"`
	MovingForward bool    `json:"moving_forward"`

	// Conditioned input
	Steering       float64 `json:"steering"`
	Throttle       float64 `json:"throttle"`
	Brake          float64 `json:"brake"`
	Reverse        bool    `json:"reverse"`
	Boost          bool    `json:"boost"`
	Drift          bool    `json:"drift"`
	Handbrake      bool    `json:"handbrake"`
	DriftIntensity float64 `json:"drift_intensity"`
	SpinFactor     float64 `json:"spin_factor"`

	// Controller output
	SteeringAngle float64 `json:"steering_angle"` // front wheels, radians
	SteeringWheel float64 `json:"steering_wheel"` // visual rotation, radians
	SteeringMode  string  `json:"steering_mode"`
	DriveMode     string  `json:"drive_mode"`
	TiltDeg       float64 `json:"tilt_deg"`
	Correcting    bool    `json:"correcting"`
	Capped        bool    `json:"capped"` // a speed cap cut the engine
	Kicked        bool    `json:"kicked"`

	Position [3]float64 `json:"position"`
}

// Direction returns "fwd", "rev" or "stop".
func (f Frame) Direction() string {
	switch {
	case f.SpeedKmh < 0.5:
		return "stop"
	case f.MovingForward:
		return "fwd"
	}
	return "rev"
}

// String renders a one-line summary for terminals and logs.
func (f Frame) String() string {
	var flags []string
	for _, fl := range []struct {
		on   bool
		name string
	}{
		{f.Reverse, "R"},
		{f.Boost, "BOOST"},
		{f.Drift, "DRIFT"},
		{f.Handbrake, "HB"},
		{f.Correcting, "TILT"},
	} {
		if fl.on {
			flags = append(flags, fl.name)
		}
	}
	return fmt.Sprintf("t=%6.2fs %5.1f km/h %-4s steer=%+.2f thr=%.2f brk=%.2f %s [%s]",
		f.Time, f.SpeedKmh, f.Direction(), f.Steering, f.Throttle, f.Brake, f.DriveMode, strings.Join(flags, " "))
}
