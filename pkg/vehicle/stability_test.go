package vehicle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-snowdrive/pkg/physics/flatworld"
)

func TestStability_UprightIsZero(t *testing.T) {
	s := NewStability(DefaultConfig().Stability)
	out := s.Update(mgl64.QuatIdent(), 0)

	assert.Zero(t, out.Tilt)
	assert.False(t, out.Correcting)
	assert.Equal(t, mgl64.Vec3{}, out.Torque)

	yawed := mgl64.QuatRotate(2.1, mgl64.Vec3{0, 1, 0})
	out = s.Update(yawed, 0)
	assert.InDelta(t, 0, out.Tilt, 1e-7, "yaw is not tilt")
	assert.Equal(t, mgl64.Vec3{}, out.Torque)
}

func TestStability_SubThresholdLeftAlone(t *testing.T) {
	s := NewStability(DefaultConfig().Stability)
	out := s.Update(mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 0, 1}), 0)

	assert.InDelta(t, mgl64.DegToRad(30), out.Tilt, 1e-9)
	assert.False(t, out.Correcting)
	assert.Equal(t, mgl64.Vec3{}, out.Torque)
}

func TestStability_TorqueProportionalToExcess(t *testing.T) {
	cfg := DefaultConfig().Stability
	s := NewStability(cfg)

	at50 := s.Update(mgl64.QuatRotate(mgl64.DegToRad(50), mgl64.Vec3{0, 0, 1}), 0)
	at65 := s.Update(mgl64.QuatRotate(mgl64.DegToRad(65), mgl64.Vec3{0, 0, 1}), 0)

	assert.InDelta(t, mgl64.DegToRad(15)*cfg.Stiffness, at50.Torque.Len(), 1e-6)
	assert.InDelta(t, 2*at50.Torque.Len(), at65.Torque.Len(), 1e-6)
}

// Rotates q by a first-order response to each tick's torque and checks the
// tilt falls every tick until it settles on the threshold.
func TestStability_CorrectionReducesTilt(t *testing.T) {
	cfg := DefaultConfig().Stability
	s := NewStability(cfg)

	axes := []mgl64.Vec3{{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {1, 0, 1}}
	for _, axis := range axes {
		q := mgl64.QuatRotate(mgl64.DegToRad(70), axis.Normalize())
		prev := Tilt(q)
		for i := 0; i < 200; i++ {
			out := s.Update(q, 0)
			require.True(t, out.Correcting, "tick %d", i)
			w := out.Torque.Mul(1e-5)
			q = mgl64.QuatRotate(w.Len(), w.Normalize()).Mul(q).Normalize()

			tilt := Tilt(q)
			require.Less(t, tilt, prev, "axis %v tick %d", axis, i)
			prev = tilt
		}
		assert.InDelta(t, cfg.Threshold(), prev, 1e-3, "axis %v", axis)
	}
}

// The same check on a free rigid body with no gravity, ground or other forces.
func TestStability_CorrectionRightsFreeBody(t *testing.T) {
	w := flatworld.New()
	w.Gravity = mgl64.Vec3{}
	w.GroundY = -1000
	body := flatworld.NewBody(flatworld.BodyOptions{
		Mass:           800,
		HalfExtents:    mgl64.Vec3{0.9, 0.35, 2.0},
		Orientation:    mgl64.QuatRotate(mgl64.DegToRad(80), mgl64.Vec3{0, 0, 1}),
		AngularDamping: 0.9,
	})
	w.AddBody(body)
	s := NewStability(DefaultConfig().Stability)

	start := Tilt(body.Orientation())
	prev := start
	for i := 0; i < 15; i++ {
		out := s.Update(body.Orientation(), 0)
		body.AddTorque(out.Torque)
		w.Step(1.0/120, tickDT, 4)

		tilt := Tilt(body.Orientation())
		require.LessOrEqual(t, tilt, prev+1e-9, "tick %d", i)
		prev = tilt
	}
	assert.Less(t, prev, start-mgl64.DegToRad(5))
}

func TestStability_UpsideDownUsesBodyAxis(t *testing.T) {
	s := NewStability(DefaultConfig().Stability)
	out := s.Update(mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0}), 0)

	assert.InDelta(t, math.Pi, out.Tilt, 1e-6)
	require.True(t, out.Correcting)
	assert.False(t, math.IsNaN(out.Torque.Len()))
	assert.Greater(t, out.Torque.Len(), 0.0)
}

func TestTilt_NeverNaN(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for range make([]struct{}, 2000) {
		q := mgl64.Quat{
			W: rng.NormFloat64(),
			V: mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()},
		}.Normalize()
		tilt := Tilt(q)
		require.False(t, math.IsNaN(tilt))
		require.GreaterOrEqual(t, tilt, 0.0)
		require.LessOrEqual(t, tilt, math.Pi)
	}
}

func TestStability_Downforce(t *testing.T) {
	cfg := DefaultConfig().Stability
	s := NewStability(cfg)

	assert.Equal(t, mgl64.Vec3{}, s.Update(mgl64.QuatIdent(), 5).Downforce)

	out := s.Update(mgl64.QuatIdent(), 80)
	assert.InDelta(t, -80*cfg.DownforcePerKmh, out.Downforce.Y(), 1e-9)
	assert.Zero(t, out.Downforce.X())
	assert.Zero(t, out.Downforce.Z())
}
