package vehicle

import "math"

// SteeringMode is the steering controller's regime.
type SteeringMode int

const (
	// ModeTracking moves the wheel angle toward the live target.
	ModeTracking SteeringMode = iota
	// ModeIdleCorrection adds a straight-line bias while input is near zero.
	ModeIdleCorrection
)

func (m SteeringMode) String() string {
	if m == ModeIdleCorrection {
		return "idle-correction"
	}
	return "tracking"
}

// SteeringOutput is what the steering controller writes for one tick.
type SteeringOutput struct {
	Front         float64 // front wheel angle, radians, positive turns left
	Rear          float64 // always 0
	SteeringWheel float64 // visual steering-wheel rotation
	Mode          SteeringMode
}

// Steering rate-limits the front wheel angle toward the driver's target.
type Steering struct {
	config SteeringConfig
	visual float64

	angle float64 // persisted current angle, radians
	mode  SteeringMode
}

// NewSteering creates a centred steering controller.
func NewSteering(config SteeringConfig, visualMultiplier float64) *Steering {
	return &Steering{config: config, visual: visualMultiplier}
}

// Angle returns the persisted wheel angle.
func (s *Steering) Angle() float64 { return s.angle }

// Mode returns the regime used on the last update.
func (s *Steering) Mode() SteeringMode { return s.mode }

// Update advances the angle toward -input × MaxAngle. Steering slows with
// speed and stops responding at SpeedFalloffKmh.
func (s *Steering) Update(input, speedKmh, dt float64) SteeringOutput {
	if math.IsNaN(input) {
		input = 0
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	maxAngle := s.config.MaxAngle()
	target := clamp(-input*maxAngle, -maxAngle, maxAngle)

	speedFactor := math.Max(0, 1-speedKmh/s.config.SpeedFalloffKmh)
	step := s.config.Responsiveness * speedFactor * dt
	s.angle = clamp(approach(s.angle, target, step), -maxAngle, maxAngle)

	out := s.angle
	s.mode = ModeTracking
	if math.Abs(input) < s.config.IdleInput && speedKmh > s.config.IdleSpeedKmh {
		s.mode = ModeIdleCorrection
		out += s.config.Correction * (1 + speedKmh/s.config.CorrectionScaleKmh)
		out = clamp(out, -maxAngle, maxAngle)
	}

	return SteeringOutput{
		Front:         out,
		Rear:          0,
		SteeringWheel: -out * s.visual,
		Mode:          s.mode,
	}
}

// Reset centres the wheels.
func (s *Steering) Reset() {
	s.angle = 0
	s.mode = ModeTracking
}

func approach(v, target, step float64) float64 {
	if v < target {
		return math.Min(v+step, target)
	}
	return math.Max(v-step, target)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
