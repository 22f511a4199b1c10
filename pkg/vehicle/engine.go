package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/input"
)

// DriveMode is the row of the engine decision table used on a tick.
type DriveMode int

const (
	DriveForward        DriveMode = iota // throttle and brake pedals
	DriveForwardCapped                   // above the forward cap, engine cut
	DriveReverseBraking                  // reverse requested while rolling forward
	DriveReverse                         // reversing
	DriveReverseCapped                   // above the reverse cap, coasting
)

// Capped reports whether the mode is one where a speed cap cut the engine.
func (m DriveMode) Capped() bool {
	return m == DriveForwardCapped || m == DriveReverseCapped
}

func (m DriveMode) String() string {
	switch m {
	case DriveForward:
		return "forward"
	case DriveForwardCapped:
		return "forward-capped"
	case DriveReverseBraking:
		return "reverse-braking"
	case DriveReverse:
		return "reverse"
	case DriveReverseCapped:
		return "reverse-capped"
	}
	return "unknown"
}

// EngineOutput holds per-slot forces for one tick.
type EngineOutput struct {
	Engine  [NumSlots]float64
	Brake   [NumSlots]float64
	Impulse mgl64.Vec3 // world-space kick, zero when none
	Mode    DriveMode
	Kicked  bool
}

// Capped reports whether a speed cap zeroed the engine this tick.
func (o EngineOutput) Capped() bool { return o.Mode.Capped() }

// Engine turns pedals into drive and brake forces.
type Engine struct {
	config EngineConfig

	kickArmed bool
}

// NewEngine creates an engine model with the kick armed.
func NewEngine(config EngineConfig) *Engine {
	return &Engine{config: config, kickArmed: true}
}

// Update evaluates the decision table for one tick. est is the previous
// tick's post-step estimate; forward is the body's world forward axis.
func (e *Engine) Update(frame input.Frame, est DirectionEstimate, forward mgl64.Vec3) EngineOutput {
	cfg := e.config
	throttle := clamp(frame.Throttle, 0, 1)
	brake := clamp(frame.Brake, 0, 1)

	var out EngineOutput
	var drive, brakePerWheel float64

	switch {
	case frame.Reverse && est.IsMovingForward && est.SpeedKmh > cfg.ReverseEngageKmh:
		out.Mode = DriveReverseBraking
		brakePerWheel = cfg.MaxBrakeForce * cfg.ReverseBrakeMultiplier
	case frame.Reverse && !est.IsMovingForward && est.SpeedKmh > cfg.MaxReverseKmh:
		out.Mode = DriveReverseCapped
	case frame.Reverse:
		out.Mode = DriveReverse
		drive = -cfg.MaxForce * cfg.ReverseForceRatio
	default:
		out.Mode = DriveForward
		drive = throttle * cfg.MaxForce
		if frame.Boost {
			drive *= cfg.BoostMultiplier
		}
		if est.IsMovingForward && est.SpeedKmh > cfg.MaxForwardKmh {
			out.Mode = DriveForwardCapped
			drive = 0
		}
		brakePerWheel = brake * cfg.MaxBrakeForce
	}

	front := drive * cfg.FrontDriveShare / 2
	rear := drive * (1 - cfg.FrontDriveShare) / 2
	out.Engine = [NumSlots]float64{front, front, rear, rear}
	out.Brake = [NumSlots]float64{brakePerWheel, brakePerWheel, brakePerWheel, brakePerWheel}
	if frame.Handbrake {
		out.Brake[BackLeft] += cfg.HandbrakeForce
		out.Brake[BackRight] += cfg.HandbrakeForce
	}

	requested := frame.Reverse || throttle > 0
	switch {
	case !requested:
		e.kickArmed = true
	case e.kickArmed && est.SpeedKmh < cfg.KickSpeedKmh && cfg.KickImpulse > 0:
		dir := forward
		if frame.Reverse {
			dir = dir.Mul(-1)
		}
		out.Impulse = dir.Mul(cfg.KickImpulse)
		out.Kicked = true
		e.kickArmed = false
	}
	return out
}

// Reset re-arms the kick.
func (e *Engine) Reset() {
	e.kickArmed = true
}
