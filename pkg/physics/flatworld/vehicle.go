package flatworld

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// Tire model constants.
const (
	// lateralGrip is the fraction of a wheel's lateral slip cancelled per sub-step.
	lateralGrip = 0.3

	// rollingResistance is the rolling resistance coefficient (force per unit load).
	rollingResistance = 0.015
)

type wheel struct {
	opts physics.WheelOptions

	steering    float64
	engineForce float64
	brake       float64

	suspensionLength float64
	inContact        bool
	normalLoad       float64
	rotation         float64
}

// Vehicle is a raycast vehicle implementing physics.Vehicle.
type Vehicle struct {
	chassis *Body
	wheels  []*wheel
}

var _ physics.Vehicle = (*Vehicle)(nil)

// NewVehicle creates a vehicle around a chassis body. Add it to a World to simulate it.
func NewVehicle(chassis *Body) *Vehicle {
	return &Vehicle{chassis: chassis}
}

// Chassis returns the chassis body.
func (v *Vehicle) Chassis() physics.RigidBody { return v.chassis }

// Body returns the concrete chassis body.
func (v *Vehicle) Body() *Body { return v.chassis }

// AddWheel appends a wheel and returns its index.
func (v *Vehicle) AddWheel(opts physics.WheelOptions) int {
	v.wheels = append(v.wheels, &wheel{opts: opts, suspensionLength: opts.SuspensionRestLength})
	return len(v.wheels) - 1
}

// NumWheels returns the number of wheels.
func (v *Vehicle) NumWheels() int { return len(v.wheels) }

// WheelOptions returns the options a wheel was created with.
func (v *Vehicle) WheelOptions(i int) (physics.WheelOptions, error) {
	if i < 0 || i >= len(v.wheels) {
		return physics.WheelOptions{}, fmt.Errorf("%w: %d of %d", physics.ErrWheelIndex, i, len(v.wheels))
	}
	return v.wheels[i].opts, nil
}

// SetSteeringValue sets a wheel's steering angle in radians (positive turns left).
func (v *Vehicle) SetSteeringValue(value float64, i int) {
	if w := v.wheel(i); w != nil {
		w.steering = value
	}
}

// ApplyEngineForce sets a wheel's drive force in newtons (positive drives forward).
func (v *Vehicle) ApplyEngineForce(force float64, i int) {
	if w := v.wheel(i); w != nil {
		w.engineForce = force
	}
}

// SetBrake sets a wheel's brake force in newtons.
func (v *Vehicle) SetBrake(brake float64, i int) {
	if w := v.wheel(i); w != nil {
		w.brake = math.Max(0, brake)
	}
}

// SteeringValue returns a wheel's current steering angle.
func (v *Vehicle) SteeringValue(i int) float64 {
	if w := v.wheel(i); w != nil {
		return w.steering
	}
	return 0
}

// EngineForce returns a wheel's current drive force.
func (v *Vehicle) EngineForce(i int) float64 {
	if w := v.wheel(i); w != nil {
		return w.engineForce
	}
	return 0
}

// Brake returns a wheel's current brake force.
func (v *Vehicle) Brake(i int) float64 {
	if w := v.wheel(i); w != nil {
		return w.brake
	}
	return 0
}

// InContact reports whether a wheel touched the ground in the last sub-step.
func (v *Vehicle) InContact(i int) bool {
	if w := v.wheel(i); w != nil {
		return w.inContact
	}
	return false
}

// UpdateWheelTransform returns the wheel's world transform for the current state.
// It reads state only, so repeated calls without a Step return the same value.
func (v *Vehicle) UpdateWheelTransform(i int) physics.Transform {
	w := v.wheel(i)
	if w == nil {
		return physics.IdentityTransform()
	}
	b := v.chassis
	up := b.orientation.Rotate(physics.WorldUp)
	conn := b.position.Add(b.orientation.Rotate(w.opts.ConnectionPoint))

	steer := mgl64.QuatRotate(w.steering, mgl64.Vec3{0, 1, 0})
	spin := mgl64.QuatRotate(w.rotation, mgl64.Vec3{1, 0, 0})
	return physics.Transform{
		Position:    conn.Sub(up.Mul(w.suspensionLength)),
		Orientation: b.orientation.Mul(steer).Mul(spin).Normalize(),
	}
}

func (v *Vehicle) wheel(i int) *wheel {
	if i < 0 || i >= len(v.wheels) {
		return nil
	}
	return v.wheels[i]
}

// update raycasts every wheel against the ground plane and applies
// suspension and tire forces to the chassis for one sub-step.
func (v *Vehicle) update(h, groundY float64) {
	b := v.chassis
	if len(v.wheels) == 0 || b.invMass == 0 {
		return
	}
	up := b.orientation.Rotate(physics.WorldUp)
	down := up.Mul(-1)
	normal := physics.WorldUp
	massShare := b.mass / float64(len(v.wheels))

	for _, w := range v.wheels {
		conn := b.position.Add(b.orientation.Rotate(w.opts.ConnectionPoint))
		rayLen := w.opts.SuspensionRestLength + w.opts.Radius

		w.inContact = false
		w.normalLoad = 0
		if down.Y() > -1e-3 {
			w.suspensionLength = w.opts.SuspensionRestLength
			continue
		}
		t := (conn.Y() - groundY) / -down.Y()
		if t < 0 || t > rayLen {
			w.suspensionLength = w.opts.SuspensionRestLength
			continue
		}

		w.inContact = true
		w.suspensionLength = math.Max(0, t-w.opts.Radius)
		contact := conn.Add(down.Mul(t))
		rel := contact.Sub(b.position)
		pointVel := b.pointVelocity(rel)

		// Suspension spring-damper along the ground normal.
		compression := w.opts.SuspensionRestLength - w.suspensionLength
		projVel := normal.Dot(pointVel)
		damping := w.opts.DampingRelaxation
		if projVel < 0 {
			damping = w.opts.DampingCompression
		}
		load := w.opts.SuspensionStiffness*compression - damping*projVel
		if w.opts.MaxSuspensionForce > 0 {
			load = math.Min(load, w.opts.MaxSuspensionForce)
		}
		load = math.Max(0, load)
		w.normalLoad = load
		b.applyForceAt(normal.Mul(load), rel)

		// Tire frame projected on the ground.
		bodyFwd := b.orientation.Rotate(mgl64.Vec3{0, 0, -1})
		wheelFwd := mgl64.QuatRotate(w.steering, up).Rotate(bodyFwd)
		fwd := wheelFwd.Sub(normal.Mul(wheelFwd.Dot(normal)))
		if fwd.Len() < 1e-9 {
			continue
		}
		fwd = fwd.Normalize()
		side := fwd.Cross(normal)

		vLong := pointVel.Dot(fwd)
		vLat := pointVel.Dot(side)
		stopForce := math.Abs(vLong) * massShare / h

		fx := w.engineForce
		if w.brake > 0 {
			fx -= sign(vLong) * math.Min(w.brake, stopForce)
		}
		fx -= sign(vLong) * math.Min(rollingResistance*load, stopForce)
		fy := -vLat * massShare / h * lateralGrip

		if limit := w.opts.FrictionSlip * load; math.Hypot(fx, fy) > limit {
			scale := limit / math.Hypot(fx, fy)
			fx *= scale
			fy *= scale
		}

		// Lift the application point toward the center of mass to limit body roll.
		lever := rel.Sub(up.Mul(rel.Dot(up) * (1 - w.opts.RollInfluence)))
		b.applyForceAt(fwd.Mul(fx).Add(side.Mul(fy)), lever)

		w.rotation -= vLong * h / math.Max(w.opts.Radius, 1e-3)
		w.rotation = math.Mod(w.rotation, 2*math.Pi)
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
