package vehicle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSteering() *Steering {
	cfg := DefaultConfig()
	return NewSteering(cfg.Steering, cfg.Visual.SteeringWheelMultiplier)
}

func TestSteering_NeverExceedsLock(t *testing.T) {
	s := newTestSteering()
	maxAngle := DefaultConfig().Steering.MaxAngle()
	rng := rand.New(rand.NewSource(1))

	for range make([]struct{}, 5000) {
		input := rng.Float64()*2 - 1
		if rng.Intn(10) == 0 {
			input *= 3 // drift range
		}
		out := s.Update(input, rng.Float64()*160, rng.Float64()*0.5)
		require.LessOrEqual(t, math.Abs(s.Angle()), maxAngle)
		require.LessOrEqual(t, math.Abs(out.Front), maxAngle)
		require.Zero(t, out.Rear)
	}
}

func TestSteering_TargetSign(t *testing.T) {
	s := newTestSteering()
	for range make([]struct{}, 120) {
		s.Update(1, 0, tickDT)
	}
	assert.InDelta(t, -mgl64.DegToRad(45), s.Angle(), 1e-9, "right input steers to a negative angle")

	for range make([]struct{}, 240) {
		s.Update(-1, 0, tickDT)
	}
	assert.InDelta(t, mgl64.DegToRad(45), s.Angle(), 1e-9)
}

func TestSteering_RateLimitedAndSlowerAtSpeed(t *testing.T) {
	slow := newTestSteering()
	fast := newTestSteering()

	slow.Update(1, 0, 0.1)
	fast.Update(1, 100, 0.1)

	assert.InDelta(t, -0.25, slow.Angle(), 1e-9, "2.5 rad/s for 0.1 s")
	assert.InDelta(t, -0.125, fast.Angle(), 1e-9, "half rate at 100 km/h")

	frozen := newTestSteering()
	frozen.Update(1, 250, 0.1)
	assert.Zero(t, frozen.Angle(), "no steering response past the falloff speed")
}

func TestSteering_IdleCorrection(t *testing.T) {
	cfg := DefaultConfig().Steering
	s := newTestSteering()

	out := s.Update(0, 0, tickDT)
	assert.Equal(t, ModeTracking, out.Mode, "no correction at standstill")
	assert.Zero(t, out.Front)

	out = s.Update(0.05, 50, tickDT)
	assert.Equal(t, ModeIdleCorrection, out.Mode)
	want := s.Angle() + cfg.Correction*2
	assert.InDelta(t, want, out.Front, 1e-12, "bias doubles at 50 km/h")

	out = s.Update(0.5, 50, tickDT)
	assert.Equal(t, ModeTracking, out.Mode)
	assert.Equal(t, s.Angle(), out.Front)
}

func TestSteering_CorrectionIsNotAccumulated(t *testing.T) {
	s := newTestSteering()
	for range make([]struct{}, 600) {
		s.Update(0, 80, tickDT)
	}
	assert.Zero(t, s.Angle(), "the persisted angle stays centred")
}

func TestSteering_SteeringWheelVisual(t *testing.T) {
	s := newTestSteering()
	out := s.Update(-1, 0, 0.1)
	assert.InDelta(t, -out.Front*2.2, out.SteeringWheel, 1e-12)
	assert.Less(t, out.SteeringWheel, 0.0)
}

func TestSteering_BadDt(t *testing.T) {
	s := newTestSteering()
	s.Update(1, 0, -1)
	assert.Zero(t, s.Angle())
	s.Update(math.NaN(), 0, math.NaN())
	assert.Zero(t, s.Angle())
}
