// Package vehicle turns conditioned input frames into physics mutations for a
// four-wheel raycast vehicle.
//
// A tick runs in a fixed order:
//
//	m := ctrl.ApplyControls(frame, dt) // uses last tick's estimate
//	m.Apply(vehicle)
//	world.Step(fixed, dt, maxSub)
//	est, _ := ctrl.Observe()           // reads post-step velocity
//	ctrl.Sync(visuals)
//
// The estimate used by ApplyControls is one tick old. That lag is part of how
// the car feels and is kept on purpose.
package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/internal/log"
	"github.com/teslashibe/go-snowdrive/pkg/debug"
	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// WheelMutation is one wheel's steering, engine and brake for a tick.
type WheelMutation struct {
	Index    int
	Steering float64
	Engine   float64
	Brake    float64
}

// Mutations is everything the controller wants written to the physics vehicle
// before the next step. The zero value is a no-op.
type Mutations struct {
	Valid bool

	Wheels     [NumSlots]WheelMutation
	Torque     mgl64.Vec3 // world space
	LocalForce mgl64.Vec3 // body space, at the centre of mass
	Impulse    mgl64.Vec3 // world space

	// Diagnostics for telemetry.
	SteeringWheel float64
	SteeringMode  SteeringMode
	DriveMode     DriveMode
	Tilt          float64
	Correcting    bool
	Kicked        bool
}

// Apply writes the mutations to v. It must be called before the physics step.
func (m Mutations) Apply(v physics.Vehicle) {
	if !m.Valid || v == nil {
		return
	}
	for _, w := range m.Wheels {
		v.SetSteeringValue(w.Steering, w.Index)
		v.ApplyEngineForce(w.Engine, w.Index)
		v.SetBrake(w.Brake, w.Index)
	}
	body := v.Chassis()
	if m.Torque != (mgl64.Vec3{}) {
		body.AddTorque(m.Torque)
	}
	if m.LocalForce != (mgl64.Vec3{}) {
		body.ApplyLocalForce(m.LocalForce, mgl64.Vec3{})
	}
	if m.Impulse != (mgl64.Vec3{}) {
		body.ApplyImpulse(m.Impulse)
	}
}

// Controller owns the steering state, kick latch and last estimate for one car.
// It is driven from a single tick goroutine.
type Controller struct {
	config Config

	vehicle physics.Vehicle
	layout  WheelLayout
	sync    *Synchronizer

	steering  *Steering
	engine    *Engine
	stability *Stability

	estimate      DirectionEstimate
	steeringWheel float64
}

// NewController validates config and creates an unattached controller.
func NewController(config Config) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		config:    config,
		steering:  NewSteering(config.Steering, config.Visual.SteeringWheelMultiplier),
		engine:    NewEngine(config.Engine),
		stability: NewStability(config.Stability),
	}, nil
}

// Config returns the active configuration.
func (c *Controller) Config() Config { return c.config }

// SetConfig swaps the tuning without resetting steering, the kick latch or
// the estimate. Call it from the tick goroutine.
func (c *Controller) SetConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	c.config = config
	c.steering.config = config.Steering
	c.steering.visual = config.Visual.SteeringWheelMultiplier
	c.engine.config = config.Engine
	c.stability.config = config.Stability
	if c.vehicle != nil {
		c.sync = NewSynchronizer(config.Visual.ChassisCorrection(), c.layout)
	}
	return nil
}

// Attach binds the controller to a physics vehicle after checking the layout.
// A layout that does not match the vehicle's wheels is rejected.
func (c *Controller) Attach(v physics.Vehicle, layout WheelLayout) error {
	if err := layout.Validate(v); err != nil {
		return err
	}
	c.vehicle = v
	c.layout = layout
	c.sync = NewSynchronizer(c.config.Visual.ChassisCorrection(), layout)
	c.estimate = Estimate(v.Chassis())
	log.Debug("vehicle attached", "wheels", v.NumWheels(), "layout", layout)
	return nil
}

// Attached reports whether a vehicle is bound.
func (c *Controller) Attached() bool { return c.vehicle != nil }

// Steering returns the persisted steering state.
func (c *Controller) Steering() *Steering { return c.steering }

// Estimate returns the last observed direction estimate.
func (c *Controller) Estimate() DirectionEstimate { return c.estimate }

// ApplyControls computes this tick's mutations from frame and the previous
// estimate. Before Attach it returns an empty Mutations.
func (c *Controller) ApplyControls(frame input.Frame, dt float64) Mutations {
	if c.vehicle == nil {
		return Mutations{}
	}
	body := c.vehicle.Chassis()
	q := body.Orientation()
	est := c.estimate

	st := c.steering.Update(frame.Steering, est.SpeedKmh, dt)
	en := c.engine.Update(frame, est, ForwardAxis(q))
	stab := c.stability.Update(q, est.SpeedKmh)

	m := Mutations{
		Valid:         true,
		Torque:        stab.Torque,
		LocalForce:    stab.Downforce,
		Impulse:       en.Impulse,
		SteeringWheel: st.SteeringWheel,
		SteeringMode:  st.Mode,
		DriveMode:     en.Mode,
		Tilt:          stab.Tilt,
		Correcting:    stab.Correcting,
		Kicked:        en.Kicked,
	}
	for _, slot := range Slots {
		w := WheelMutation{
			Index:  c.layout.Index(slot),
			Engine: en.Engine[slot],
			Brake:  en.Brake[slot],
		}
		if slot.Front() {
			w.Steering = st.Front
		} else {
			w.Steering = st.Rear
		}
		m.Wheels[slot] = w
	}
	c.steeringWheel = st.SteeringWheel

	if debug.Physics {
		log.Debug("controls",
			"steer", st.Front, "mode", st.Mode, "drive", en.Mode,
			"engine", en.Engine, "brake", en.Brake,
			"speed_kmh", est.SpeedKmh, "forward", est.IsMovingForward,
			"tilt_deg", mgl64.RadToDeg(stab.Tilt))
	}
	return m
}

// Observe reads the post-step body state and stores it for the next tick.
func (c *Controller) Observe() (DirectionEstimate, error) {
	if c.vehicle == nil {
		return DirectionEstimate{}, ErrNotAttached
	}
	c.estimate = Estimate(c.vehicle.Chassis())
	return c.estimate, nil
}

// Sync copies the post-step transforms to vis. It is a no-op before Attach.
func (c *Controller) Sync(vis Visuals) {
	if c.vehicle == nil {
		return
	}
	c.sync.Sync(c.vehicle, vis, c.steeringWheel)
}

// Reset centres steering, re-arms the kick and re-reads the estimate.
// Use it after the physics vehicle has been respawned.
func (c *Controller) Reset() {
	c.steering.Reset()
	c.engine.Reset()
	c.steeringWheel = 0
	if c.vehicle != nil {
		c.estimate = Estimate(c.vehicle.Chassis())
	}
}
