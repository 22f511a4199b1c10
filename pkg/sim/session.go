// Package sim runs the per-tick loop that ties input, controller, physics
// and visuals together for one car.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/teslashibe/go-snowdrive/internal/log"
	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/physics"
	"github.com/teslashibe/go-snowdrive/pkg/telemetry"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
)

// ErrNoWorld is returned by New when Options.World is nil.
var ErrNoWorld = errors.New("sim: no physics world")

// Options configures a Session.
type Options struct {
	Config  Config
	Input   input.Config
	Vehicle vehicle.Config

	World physics.World
	// Car is attached immediately when set. Otherwise call Attach later.
	Car     physics.Vehicle
	Layout  vehicle.WheelLayout
	Visuals vehicle.Visuals

	Sink  telemetry.Sink // optional, receives every frame after the recorder
	Meter metric.Meter   // optional, defaults to the global meter
}

// Session owns one car's tick loop. Tick, Run, Replay and Attach must be
// called from a single goroutine; Tune, Tuning, Last and Stats may be called
// from anywhere.
type Session struct {
	id     string
	config Config
	logger *slog.Logger

	world   physics.World
	car     physics.Vehicle
	visuals vehicle.Visuals

	cond     *input.Conditioner
	ctrl     *vehicle.Controller
	recorder *telemetry.Recorder
	sink     telemetry.Sink

	tuning chan tuneRequest

	tick    uint64
	simTime float64

	mu          sync.RWMutex
	last        telemetry.Frame
	wantInput   input.Config
	wantVehicle vehicle.Config
}

// New validates opts and builds a session.
func New(opts Options) (*Session, error) {
	if opts.World == nil {
		return nil, ErrNoWorld
	}
	if err := errors.Join(opts.Config.Validate(), opts.Input.Validate()); err != nil {
		return nil, err
	}
	ctrl, err := vehicle.NewController(opts.Vehicle)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	recorder, err := telemetry.NewRecorder(opts.Meter, id)
	if err != nil {
		return nil, fmt.Errorf("creating recorder: %w", err)
	}
	var sink telemetry.Sink = recorder
	if opts.Sink != nil {
		sink = telemetry.Multi{recorder, opts.Sink}
	}

	s := &Session{
		id:          id,
		config:      opts.Config,
		logger:      log.With("session", id),
		world:       opts.World,
		visuals:     opts.Visuals,
		cond:        input.NewConditioner(opts.Input),
		ctrl:        ctrl,
		recorder:    recorder,
		sink:        sink,
		tuning:      make(chan tuneRequest, opts.Config.TuningQueue),
		wantInput:   opts.Input,
		wantVehicle: opts.Vehicle,
	}
	if opts.Car != nil {
		if err := s.Attach(opts.Car, opts.Layout); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ID returns the session's unique ID.
func (s *Session) ID() string { return s.id }

// Config returns the loop configuration.
func (s *Session) Config() Config { return s.config }

// Controller exposes the vehicle controller for inspection.
func (s *Session) Controller() *vehicle.Controller { return s.ctrl }

// Attach binds a physics vehicle. Until then ticks step the world and
// publish frames but write nothing to a car.
func (s *Session) Attach(car physics.Vehicle, layout vehicle.WheelLayout) error {
	if err := s.ctrl.Attach(car, layout); err != nil {
		return fmt.Errorf("attaching vehicle: %w", err)
	}
	s.car = car
	s.cond.Reset()
	s.logger.Info("vehicle attached", "wheels", car.NumWheels())
	return nil
}

// Tick advances the session by dt seconds and returns the published frame.
func (s *Session) Tick(ctx context.Context, raw input.Raw, dt float64) telemetry.Frame {
	s.drainTuning()

	frame := s.cond.Update(raw, dt)
	m := s.ctrl.ApplyControls(frame, dt)
	m.Apply(s.car)
	s.world.Step(s.config.FixedStep, dt, s.config.MaxSubSteps)
	est, _ := s.ctrl.Observe()
	s.ctrl.Sync(s.visuals)

	s.tick++
	s.simTime += dt
	f := s.frame(frame, m, est)
	s.sink.Record(ctx, f)

	s.mu.Lock()
	s.last = f
	s.mu.Unlock()
	return f
}

func (s *Session) frame(in input.Frame, m vehicle.Mutations, est vehicle.DirectionEstimate) telemetry.Frame {
	f := telemetry.Frame{
		SessionID:      s.id,
		Tick:           s.tick,
		Time:           s.simTime,
		SpeedKmh:       est.SpeedKmh,
		MovingForward:  est.IsMovingForward,
		Steering:       in.Steering,
		Throttle:       in.Throttle,
		Brake:          in.Brake,
		Reverse:        in.Reverse,
		Boost:          in.Boost,
		Drift:          in.Drift,
		Handbrake:      in.Handbrake,
		DriftIntensity: in.DriftIntensity,
		SpinFactor:     in.SpinFactor,
	}
	if !m.Valid {
		return f
	}
	f.SteeringAngle = m.Wheels[vehicle.FrontLeft].Steering
	f.SteeringWheel = m.SteeringWheel
	f.SteeringMode = m.SteeringMode.String()
	f.DriveMode = m.DriveMode.String()
	f.TiltDeg = mgl64.RadToDeg(m.Tilt)
	f.Correcting = m.Correcting
	f.Capped = m.DriveMode.Capped()
	f.Kicked = m.Kicked
	p := s.car.Chassis().Position()
	f.Position = [3]float64{p.X(), p.Y(), p.Z()}
	return f
}

// Run ticks at Config.TickRate until ctx is cancelled or src runs out. The
// measured wall-clock interval is passed as dt; the conditioner clamps stalls.
// It returns nil when src ends.
func (s *Session) Run(ctx context.Context, src input.Source) error {
	ticker := time.NewTicker(s.config.Period())
	defer ticker.Stop()

	s.logger.Info("session started", "tick_rate", s.config.TickRate)
	defer func() { s.logger.Info("session stopped", "ticks", s.tick, "sim_time", s.simTime) }()

	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(prev).Seconds()
			prev = now
			raw, ok := src.Next(dt)
			if !ok {
				return nil
			}
			s.Tick(ctx, raw, dt)
		}
	}
}

// Replay ticks with a fixed dt as fast as possible until src runs out or ctx
// is cancelled. Results are deterministic for a deterministic world.
func (s *Session) Replay(ctx context.Context, src input.Source, dt float64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, ok := src.Next(dt)
		if !ok {
			return nil
		}
		s.Tick(ctx, raw, dt)
	}
}

// Last returns the most recent frame.
func (s *Session) Last() telemetry.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Stats returns the recorder's running totals.
func (s *Session) Stats() telemetry.Stats {
	return s.recorder.Stats()
}
