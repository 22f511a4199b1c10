package sim

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
)

func TestTuning_DefaultsReflectConfig(t *testing.T) {
	s, _ := newSession(t)
	p := s.Tuning()
	assert.Equal(t, vehicle.DefaultConfig().Engine.MaxForwardKmh, p.MaxForwardKmh)
	assert.Equal(t, input.DefaultConfig().SteeringSpeed, p.SteeringSpeed)
}

func TestTune_AppliedAtNextTick(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Tune(TuningParams{MaxForwardKmh: 20, SteeringSpeed: 5}))

	assert.Equal(t, 20.0, s.Tuning().MaxForwardKmh)
	assert.Equal(t, vehicle.DefaultConfig().Engine.MaxForwardKmh, s.Controller().Config().Engine.MaxForwardKmh,
		"not applied until the tick goroutine runs")

	s.Tick(context.Background(), input.Raw{}, dt)
	assert.Equal(t, 20.0, s.Controller().Config().Engine.MaxForwardKmh)
	assert.Equal(t, vehicle.DefaultConfig().Engine.MaxReverseKmh, s.Controller().Config().Engine.MaxReverseKmh,
		"zero fields are left alone")

	f := replay(t, s, "throttle 8s")
	assert.LessOrEqual(t, f.SpeedKmh, 21.0)
	assert.Greater(t, f.SpeedKmh, 15.0)
	assert.Positive(t, s.Stats().CapCuts)
}

func TestTune_Compounds(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Tune(TuningParams{MaxForwardKmh: 80}))
	require.NoError(t, s.Tune(TuningParams{Stiffness: 3000}))

	p := s.Tuning()
	assert.Equal(t, 80.0, p.MaxForwardKmh)
	assert.Equal(t, 3000.0, p.Stiffness)

	s.Tick(context.Background(), input.Raw{}, dt)
	cfg := s.Controller().Config()
	assert.Equal(t, 80.0, cfg.Engine.MaxForwardKmh)
	assert.Equal(t, 3000.0, cfg.Stability.Stiffness)
}

func TestTune_RejectsInvalid(t *testing.T) {
	s, _ := newSession(t)
	err := s.Tune(TuningParams{MaxForce: -10})
	assert.ErrorIs(t, err, vehicle.ErrInvalidConfig)
	assert.Equal(t, vehicle.DefaultConfig().Engine.MaxForce, s.Tuning().MaxForce)

	err = s.Tune(TuningParams{HandbrakeForce: -1})
	assert.ErrorIs(t, err, vehicle.ErrInvalidConfig)

	err = s.Tune(TuningParams{SteeringSpeed: -1})
	assert.ErrorIs(t, err, input.ErrInvalidConfig)
}

func TestTune_Busy(t *testing.T) {
	s, _ := newSession(t, func(o *Options) { o.Config.TuningQueue = 1 })
	require.NoError(t, s.Tune(TuningParams{MaxForwardKmh: 90}))
	assert.ErrorIs(t, s.Tune(TuningParams{MaxForwardKmh: 70}), ErrTuningBusy)
	assert.Equal(t, 90.0, s.Tuning().MaxForwardKmh)

	s.Tick(context.Background(), input.Raw{}, dt)
	require.NoError(t, s.Tune(TuningParams{MaxForwardKmh: 70}))
}

func TestTune_ConcurrentWithTicks(t *testing.T) {
	s, _ := newSession(t, func(o *Options) { o.Config.TuningQueue = 64 })
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_ = s.Tune(TuningParams{MaxForwardKmh: float64(50 + i)})
			_ = s.Last()
		}
	}()
	for range make([]struct{}, 120) {
		s.Tick(context.Background(), input.Raw{Throttle: true}, dt)
	}
	wg.Wait()
	s.Tick(context.Background(), input.Raw{}, dt)
	assert.Equal(t, s.Tuning().MaxForwardKmh, s.Controller().Config().Engine.MaxForwardKmh)
}

func TestTuningKeys(t *testing.T) {
	keys := TuningKeys()
	assert.Len(t, keys, 11)
	assert.Contains(t, keys, "max_forward_kmh")
	assert.Contains(t, keys, "stiffness")
	assert.NotContains(t, keys, "")
}
