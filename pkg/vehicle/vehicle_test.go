package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
	"github.com/teslashibe/go-snowdrive/pkg/physics/flatworld"
)

const tickDT = 1.0 / 60.0

// fakeBody is a RigidBody that records what the controller writes.
type fakeBody struct {
	pos, vel, angVel mgl64.Vec3
	q                mgl64.Quat

	torque, force, impulse mgl64.Vec3
	forceAt                mgl64.Vec3
}

func newFakeBody() *fakeBody { return &fakeBody{q: mgl64.QuatIdent()} }

func (b *fakeBody) Position() mgl64.Vec3        { return b.pos }
func (b *fakeBody) Orientation() mgl64.Quat     { return b.q }
func (b *fakeBody) Velocity() mgl64.Vec3        { return b.vel }
func (b *fakeBody) AngularVelocity() mgl64.Vec3 { return b.angVel }
func (b *fakeBody) AddTorque(t mgl64.Vec3)      { b.torque = b.torque.Add(t) }
func (b *fakeBody) ApplyImpulse(i mgl64.Vec3)   { b.impulse = b.impulse.Add(i) }
func (b *fakeBody) ApplyLocalForce(f, p mgl64.Vec3) {
	b.force = b.force.Add(f)
	b.forceAt = p
}

var _ physics.RigidBody = (*fakeBody)(nil)

// fakeVehicle routes chassis writes to a fakeBody.
type fakeVehicle struct {
	*flatworld.Vehicle
	body *fakeBody
}

func (v fakeVehicle) Chassis() physics.RigidBody { return v.body }
