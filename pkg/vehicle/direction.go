package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// MsToKmh converts metres per second to kilometres per hour.
const MsToKmh = 3.6

// localBack is the body axis the estimator projects onto. Local forward is -Z,
// so a negative projection means forward travel.
var localBack = mgl64.Vec3{0, 0, 1}

// DirectionEstimate is the direction of travel derived from body state.
type DirectionEstimate struct {
	IsMovingForward bool    `json:"moving_forward"`
	SpeedKmh        float64 `json:"speed_kmh"`
}

// Estimate derives direction and speed from a body's velocity and orientation.
func Estimate(body physics.RigidBody) DirectionEstimate {
	axis := body.Orientation().Rotate(localBack)
	proj := body.Velocity().Dot(axis)
	if math.IsNaN(proj) {
		return DirectionEstimate{}
	}
	return DirectionEstimate{
		IsMovingForward: proj < 0,
		SpeedKmh:        math.Abs(proj) * MsToKmh,
	}
}

// ForwardAxis returns the body's world-space forward direction.
func ForwardAxis(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(localBack).Mul(-1)
}
