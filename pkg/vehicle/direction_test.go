package vehicle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	yaw180 := mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})
	yaw90 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})

	tests := []struct {
		name    string
		q       mgl64.Quat
		vel     mgl64.Vec3
		forward bool
		kmh     float64
	}{
		{"at rest", mgl64.QuatIdent(), mgl64.Vec3{}, false, 0},
		{"forward along -Z", mgl64.QuatIdent(), mgl64.Vec3{0, 0, -10}, true, 36},
		{"backward along +Z", mgl64.QuatIdent(), mgl64.Vec3{0, 0, 5}, false, 18},
		{"turned around, moving +Z", yaw180, mgl64.Vec3{0, 0, 10}, true, 36},
		{"yawed left, moving -X", yaw90, mgl64.Vec3{-2, 0, 0}, true, 7.2},
		{"pure sideways slide", mgl64.QuatIdent(), mgl64.Vec3{10, 0, 0}, false, 0},
		{"falling only", mgl64.QuatIdent(), mgl64.Vec3{0, -3, 0}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBody()
			b.q = tt.q
			b.vel = tt.vel

			got := Estimate(b)
			assert.Equal(t, tt.forward, got.IsMovingForward)
			assert.InDelta(t, tt.kmh, got.SpeedKmh, 1e-9)
			assert.GreaterOrEqual(t, got.SpeedKmh, 0.0)
		})
	}
}

func TestEstimate_NaNVelocity(t *testing.T) {
	b := newFakeBody()
	b.vel = mgl64.Vec3{0, 0, math.NaN()}
	assert.Equal(t, DirectionEstimate{}, Estimate(b))
}

func TestForwardAxis(t *testing.T) {
	f := ForwardAxis(mgl64.QuatIdent())
	assert.InDelta(t, -1, f.Z(), 1e-12)

	f = ForwardAxis(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))
	assert.InDelta(t, -1, f.X(), 1e-12, "yawing left turns -Z toward -X")
}
