package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// degenerateAxis is the cross-product length below which the correction axis
// is taken from the body instead.
const degenerateAxis = 1e-6

var (
	localUp    = mgl64.Vec3{0, 1, 0}
	localRight = mgl64.Vec3{1, 0, 0}
)

// StabilityOutput is the corrective torque and downforce for one tick.
type StabilityOutput struct {
	Tilt       float64    // radians from world up
	Torque     mgl64.Vec3 // world space
	Downforce  mgl64.Vec3 // body space, applied at the centre of mass
	Correcting bool
}

// Stability is a proportional anti-flip controller with speed downforce.
// It has no integral term: sub-threshold tilt is left alone.
type Stability struct {
	config StabilityConfig
}

// NewStability creates a stability corrector.
func NewStability(config StabilityConfig) *Stability {
	return &Stability{config: config}
}

// Tilt returns the angle between the body's up axis and world up.
func Tilt(q mgl64.Quat) float64 {
	up := q.Rotate(localUp)
	return math.Acos(clamp(up.Dot(physics.WorldUp), -1, 1))
}

// Update computes the correction for orientation q at speedKmh.
func (s *Stability) Update(q mgl64.Quat, speedKmh float64) StabilityOutput {
	var out StabilityOutput
	up := q.Rotate(localUp)
	out.Tilt = math.Acos(clamp(up.Dot(physics.WorldUp), -1, 1))

	if excess := out.Tilt - s.config.Threshold(); excess > 0 {
		axis := up.Cross(physics.WorldUp)
		if axis.Len() < degenerateAxis {
			axis = q.Rotate(localRight)
		}
		out.Torque = axis.Normalize().Mul(excess * s.config.Stiffness)
		out.Correcting = true
	}

	if speedKmh > s.config.DownforceSpeedKmh {
		out.Downforce = mgl64.Vec3{0, -speedKmh * s.config.DownforcePerKmh, 0}
	}
	return out
}
