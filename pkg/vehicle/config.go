package vehicle

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds every tunable value of the controller. Forces are newtons,
// speeds km/h, angles degrees.
type Config struct {
	Steering  SteeringConfig  `mapstructure:"steering" json:"steering"`
	Engine    EngineConfig    `mapstructure:"engine" json:"engine"`
	Stability StabilityConfig `mapstructure:"stability" json:"stability"`
	Visual    VisualConfig    `mapstructure:"visual" json:"visual"`
}

// SteeringConfig tunes the steering controller.
type SteeringConfig struct {
	MaxAngleDeg     float64 `mapstructure:"max_angle_deg" json:"max_angle_deg"`         // Wheel lock
	Responsiveness  float64 `mapstructure:"responsiveness" json:"responsiveness"`       // rad/s at standstill
	SpeedFalloffKmh float64 `mapstructure:"speed_falloff_kmh" json:"speed_falloff_kmh"` // Steering rate reaches 0 here

	// Idle correction
	IdleInput          float64 `mapstructure:"idle_input" json:"idle_input"`                     // |input| below this counts as idle
	IdleSpeedKmh       float64 `mapstructure:"idle_speed_kmh" json:"idle_speed_kmh"`             // Only correct above this speed
	Correction         float64 `mapstructure:"correction" json:"correction"`                     // Bias in radians
	CorrectionScaleKmh float64 `mapstructure:"correction_scale_kmh" json:"correction_scale_kmh"` // Bias grows by 1x per this many km/h
}

// EngineConfig tunes the engine and brake force model.
type EngineConfig struct {
	MaxForce               float64 `mapstructure:"max_force" json:"max_force"`             // Total drive force
	MaxBrakeForce          float64 `mapstructure:"max_brake_force" json:"max_brake_force"` // Per wheel
	BoostMultiplier        float64 `mapstructure:"boost_multiplier" json:"boost_multiplier"`
	ReverseForceRatio      float64 `mapstructure:"reverse_force_ratio" json:"reverse_force_ratio"`           // Reverse force as a share of MaxForce
	ReverseBrakeMultiplier float64 `mapstructure:"reverse_brake_multiplier" json:"reverse_brake_multiplier"` // Brake gain when reversing out of forward travel
	ReverseEngageKmh       float64 `mapstructure:"reverse_engage_kmh" json:"reverse_engage_kmh"`             // Brake instead of reversing above this forward speed
	FrontDriveShare        float64 `mapstructure:"front_drive_share" json:"front_drive_share"`               // 1 = front-wheel drive, 0 = rear-wheel drive
	HandbrakeForce         float64 `mapstructure:"handbrake_force" json:"handbrake_force"`                   // Per rear wheel

	MaxForwardKmh float64 `mapstructure:"max_forward_kmh" json:"max_forward_kmh"`
	MaxReverseKmh float64 `mapstructure:"max_reverse_kmh" json:"max_reverse_kmh"`

	KickImpulse  float64 `mapstructure:"kick_impulse" json:"kick_impulse"`     // N·s
	KickSpeedKmh float64 `mapstructure:"kick_speed_kmh" json:"kick_speed_kmh"` // Kick only below this speed
}

// StabilityConfig tunes flip prevention and downforce.
type StabilityConfig struct {
	TiltThresholdDeg  float64 `mapstructure:"tilt_threshold_deg" json:"tilt_threshold_deg"`
	Stiffness         float64 `mapstructure:"stiffness" json:"stiffness"` // N·m per radian of excess tilt
	DownforceSpeedKmh float64 `mapstructure:"downforce_speed_kmh" json:"downforce_speed_kmh"`
	DownforcePerKmh   float64 `mapstructure:"downforce_per_kmh" json:"downforce_per_kmh"` // N per km/h
}

// VisualConfig aligns visual assets with the physics convention.
type VisualConfig struct {
	SteeringWheelMultiplier float64 `mapstructure:"steering_wheel_multiplier" json:"steering_wheel_multiplier"`
	ChassisYawDeg           float64 `mapstructure:"chassis_yaw_deg" json:"chassis_yaw_deg"` // Rotation applied to the chassis model
}

// DefaultConfig returns a tuning for a mid-size car on the flatworld engine.
func DefaultConfig() Config {
	return Config{
		Steering: SteeringConfig{
			MaxAngleDeg:     45,
			Responsiveness:  2.5,
			SpeedFalloffKmh: 200,

			IdleInput:          0.1,
			IdleSpeedKmh:       1,
			Correction:         0.0015,
			CorrectionScaleKmh: 50,
		},
		Engine: EngineConfig{
			MaxForce:               4000,
			MaxBrakeForce:          1500,
			BoostMultiplier:        1.5,
			ReverseForceRatio:      0.4,
			ReverseBrakeMultiplier: 2,
			ReverseEngageKmh:       1,
			FrontDriveShare:        0.7,
			HandbrakeForce:         2500,

			MaxForwardKmh: 140,
			MaxReverseKmh: 30,

			KickImpulse:  400,
			KickSpeedKmh: 2,
		},
		Stability: StabilityConfig{
			TiltThresholdDeg:  35,
			Stiffness:         6000,
			DownforceSpeedKmh: 10,
			DownforcePerKmh:   5,
		},
		Visual: VisualConfig{
			SteeringWheelMultiplier: 2.2,
		},
	}
}

// ArcadeConfig returns a punchier tuning: more force, quicker steering,
// higher caps and a stiffer anti-flip.
func ArcadeConfig() Config {
	cfg := DefaultConfig()
	cfg.Steering.Responsiveness = 4
	cfg.Engine.MaxForce = 6000
	cfg.Engine.MaxForwardKmh = 180
	cfg.Engine.BoostMultiplier = 2
	cfg.Stability.TiltThresholdDeg = 30
	cfg.Stability.Stiffness = 9000
	cfg.Visual.SteeringWheelMultiplier = 2.5
	return cfg
}

// Validate checks that the tuning is usable.
func (c Config) Validate() error {
	var errs []error
	bad := func(name string, v any, want string) {
		errs = append(errs, fmt.Errorf("%w: %s must be %s, got %v", ErrInvalidConfig, name, want, v))
	}

	s := c.Steering
	if s.MaxAngleDeg <= 0 || s.MaxAngleDeg > 90 {
		bad("steering.max_angle_deg", s.MaxAngleDeg, "in (0,90]")
	}
	if s.Responsiveness <= 0 {
		bad("steering.responsiveness", s.Responsiveness, "> 0")
	}
	if s.SpeedFalloffKmh <= 0 {
		bad("steering.speed_falloff_kmh", s.SpeedFalloffKmh, "> 0")
	}
	if s.CorrectionScaleKmh <= 0 {
		bad("steering.correction_scale_kmh", s.CorrectionScaleKmh, "> 0")
	}

	e := c.Engine
	if e.MaxForce <= 0 {
		bad("engine.max_force", e.MaxForce, "> 0")
	}
	if e.MaxBrakeForce < 0 {
		bad("engine.max_brake_force", e.MaxBrakeForce, ">= 0")
	}
	if e.HandbrakeForce < 0 {
		bad("engine.handbrake_force", e.HandbrakeForce, ">= 0")
	}
	if e.FrontDriveShare < 0 || e.FrontDriveShare > 1 {
		bad("engine.front_drive_share", e.FrontDriveShare, "in [0,1]")
	}
	if e.ReverseForceRatio <= 0 || e.ReverseForceRatio > 1 {
		bad("engine.reverse_force_ratio", e.ReverseForceRatio, "in (0,1]")
	}
	if e.BoostMultiplier < 1 {
		bad("engine.boost_multiplier", e.BoostMultiplier, ">= 1")
	}
	if e.MaxForwardKmh <= 0 {
		bad("engine.max_forward_kmh", e.MaxForwardKmh, "> 0")
	}
	if e.MaxReverseKmh <= 0 {
		bad("engine.max_reverse_kmh", e.MaxReverseKmh, "> 0")
	}

	st := c.Stability
	if st.TiltThresholdDeg <= 0 || st.TiltThresholdDeg >= 180 {
		bad("stability.tilt_threshold_deg", st.TiltThresholdDeg, "in (0,180)")
	}
	if st.Stiffness < 0 {
		bad("stability.stiffness", st.Stiffness, ">= 0")
	}
	return errors.Join(errs...)
}

// MaxAngle returns the steering lock in radians.
func (s SteeringConfig) MaxAngle() float64 { return mgl64.DegToRad(s.MaxAngleDeg) }

// Threshold returns the tilt threshold in radians.
func (s StabilityConfig) Threshold() float64 { return mgl64.DegToRad(s.TiltThresholdDeg) }

// ChassisCorrection returns the rotation applied to the chassis model.
func (v VisualConfig) ChassisCorrection() mgl64.Quat {
	if v.ChassisYawDeg == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(mgl64.DegToRad(v.ChassisYawDeg), mgl64.Vec3{0, 1, 0})
}
