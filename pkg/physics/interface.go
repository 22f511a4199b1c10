// Package physics defines the rigid-body and raycast-vehicle capabilities the
// driving core consumes.
//
// The interfaces are kept small so a consumer depends only on what it uses.
// Direction estimation reads a RigidBody. The controller, the layout check and
// the visual synchronizer take the whole Vehicle. Stability and steering work
// on plain values and never touch the physics world.
package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrWheelIndex is returned when a wheel index is outside the vehicle's wheel array.
var ErrWheelIndex = errors.New("physics: wheel index out of range")

// WorldUp is the world-space up axis (+Y).
var WorldUp = mgl64.Vec3{0, 1, 0}

// Transform is a world-space position and orientation.
type Transform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityTransform returns a transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Orientation: mgl64.QuatIdent()}
}

// RigidBody is a physics-owned body. Callers hold a non-owning reference.
type RigidBody interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
	Velocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3

	// AddTorque accumulates a world-space torque until the next step.
	AddTorque(torque mgl64.Vec3)

	// ApplyLocalForce accumulates a body-space force at a body-space point.
	ApplyLocalForce(force, localPoint mgl64.Vec3)

	// ApplyImpulse changes momentum immediately at the center of mass.
	ApplyImpulse(impulse mgl64.Vec3)
}

// WheelOptions describes one raycast wheel.
type WheelOptions struct {
	// ConnectionPoint is the body-space suspension anchor.
	// Left wheels have X < 0, front wheels have Z < 0.
	ConnectionPoint mgl64.Vec3

	Radius               float64
	SuspensionStiffness  float64 // N/m
	SuspensionRestLength float64 // m
	DampingRelaxation    float64 // N·s/m while extending
	DampingCompression   float64 // N·s/m while compressing
	MaxSuspensionForce   float64
	RollInfluence        float64 // 0..1, scales the vertical lever arm of tire forces
	FrictionSlip         float64 // tire friction coefficient
	IsFront              bool
}

// WheelSteerer sets per-wheel steering angles.
type WheelSteerer interface {
	SetSteeringValue(value float64, wheel int)
}

// WheelDriver sets per-wheel engine and brake forces.
type WheelDriver interface {
	ApplyEngineForce(force float64, wheel int)
	SetBrake(brake float64, wheel int)
}

// WheelPoser reports per-wheel world transforms.
type WheelPoser interface {
	// UpdateWheelTransform recomputes and returns the wheel's world transform,
	// including suspension travel, steering and spin.
	UpdateWheelTransform(wheel int) Transform
}

// Vehicle is the composite raycast-vehicle capability.
type Vehicle interface {
	WheelSteerer
	WheelDriver
	WheelPoser

	Chassis() RigidBody
	AddWheel(opts WheelOptions) int
	NumWheels() int
	WheelOptions(wheel int) (WheelOptions, error)
}

// World advances the simulation.
type World interface {
	// Step advances by dt using at most maxSubSteps fixed sub-steps of fixedStep.
	Step(fixedStep, dt float64, maxSubSteps int)
}
