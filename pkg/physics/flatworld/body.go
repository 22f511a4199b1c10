// Package flatworld is a small reference physics engine: rigid boxes and
// raycast vehicles over an infinite flat ground plane.
//
// It exists so the driving core can be exercised headless and in tests. It is
// deliberately simple (semi-implicit Euler, diagonal box inertia, one ground
// plane) and makes no attempt at general collision handling.
package flatworld

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// BodyOptions configures a rigid box.
type BodyOptions struct {
	Mass           float64
	HalfExtents    mgl64.Vec3
	Position       mgl64.Vec3
	Orientation    mgl64.Quat
	LinearDamping  float64 // fraction of velocity lost per second (0..1)
	AngularDamping float64 // fraction of angular velocity lost per second (0..1)
}

// Body is a rigid box implementing physics.RigidBody.
type Body struct {
	mass        float64
	invMass     float64
	invInertia  mgl64.Vec3 // body-space diagonal
	halfExtents mgl64.Vec3

	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3

	linearDamping  float64
	angularDamping float64

	// External accumulators persist for a whole World.Step; internal ones
	// are cleared after every sub-step.
	extForce   mgl64.Vec3
	extTorque  mgl64.Vec3
	stepForce  mgl64.Vec3
	stepTorque mgl64.Vec3
}

var _ physics.RigidBody = (*Body)(nil)

// NewBody creates a rigid box. A zero orientation is treated as identity.
func NewBody(opts BodyOptions) *Body {
	q := opts.Orientation
	if q.Len() < 1e-9 {
		q = mgl64.QuatIdent()
	}
	b := &Body{
		mass:           opts.Mass,
		halfExtents:    opts.HalfExtents,
		position:       opts.Position,
		orientation:    q.Normalize(),
		linearDamping:  clamp(opts.LinearDamping, 0, 1),
		angularDamping: clamp(opts.AngularDamping, 0, 1),
	}
	if opts.Mass > 0 {
		b.invMass = 1 / opts.Mass
		w, h, d := 2*opts.HalfExtents.X(), 2*opts.HalfExtents.Y(), 2*opts.HalfExtents.Z()
		ix := opts.Mass / 12 * (h*h + d*d)
		iy := opts.Mass / 12 * (w*w + d*d)
		iz := opts.Mass / 12 * (w*w + h*h)
		b.invInertia = mgl64.Vec3{inv(ix), inv(iy), inv(iz)}
	}
	return b
}

// Mass returns the body mass in kg.
func (b *Body) Mass() float64 { return b.mass }

// Position returns the world-space center of mass.
func (b *Body) Position() mgl64.Vec3 { return b.position }

// Orientation returns the body orientation.
func (b *Body) Orientation() mgl64.Quat { return b.orientation }

// Velocity returns the linear velocity in m/s.
func (b *Body) Velocity() mgl64.Vec3 { return b.velocity }

// AngularVelocity returns the world-space angular velocity in rad/s.
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.angularVelocity }

// SetPosition teleports the body.
func (b *Body) SetPosition(p mgl64.Vec3) { b.position = p }

// SetOrientation replaces the orientation.
func (b *Body) SetOrientation(q mgl64.Quat) { b.orientation = q.Normalize() }

// SetVelocity replaces the linear velocity.
func (b *Body) SetVelocity(v mgl64.Vec3) { b.velocity = v }

// SetAngularVelocity replaces the angular velocity.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) { b.angularVelocity = w }

// AddTorque accumulates a world-space torque for the next Step.
func (b *Body) AddTorque(torque mgl64.Vec3) {
	b.extTorque = b.extTorque.Add(torque)
}

// ApplyLocalForce accumulates a body-space force at a body-space point for the next Step.
func (b *Body) ApplyLocalForce(force, localPoint mgl64.Vec3) {
	f := b.orientation.Rotate(force)
	r := b.orientation.Rotate(localPoint)
	b.extForce = b.extForce.Add(f)
	b.extTorque = b.extTorque.Add(r.Cross(f))
}

// ApplyImpulse changes linear momentum immediately.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	b.velocity = b.velocity.Add(impulse.Mul(b.invMass))
}

// ExternalTorque returns the torque accumulated since the last Step.
func (b *Body) ExternalTorque() mgl64.Vec3 { return b.extTorque }

// ExternalForce returns the force accumulated since the last Step.
func (b *Body) ExternalForce() mgl64.Vec3 { return b.extForce }

// applyForceAt adds a world-space force at a world-space offset from the center of mass.
func (b *Body) applyForceAt(force, rel mgl64.Vec3) {
	b.stepForce = b.stepForce.Add(force)
	b.stepTorque = b.stepTorque.Add(rel.Cross(force))
}

// pointVelocity is the world velocity of a point at offset rel from the center of mass.
func (b *Body) pointVelocity(rel mgl64.Vec3) mgl64.Vec3 {
	return b.velocity.Add(b.angularVelocity.Cross(rel))
}

// applyInvInertia computes I⁻¹·t in world space.
func (b *Body) applyInvInertia(t mgl64.Vec3) mgl64.Vec3 {
	local := b.orientation.Conjugate().Rotate(t)
	local = mgl64.Vec3{
		local.X() * b.invInertia.X(),
		local.Y() * b.invInertia.Y(),
		local.Z() * b.invInertia.Z(),
	}
	return b.orientation.Rotate(local)
}

// integrate advances the body by h seconds (semi-implicit Euler).
func (b *Body) integrate(h float64, gravity mgl64.Vec3) {
	if b.invMass == 0 {
		b.clearStep()
		return
	}

	force := b.extForce.Add(b.stepForce)
	torque := b.extTorque.Add(b.stepTorque)

	accel := force.Mul(b.invMass).Add(gravity)
	b.velocity = b.velocity.Add(accel.Mul(h))
	b.angularVelocity = b.angularVelocity.Add(b.applyInvInertia(torque).Mul(h))

	b.velocity = b.velocity.Mul(math.Pow(1-b.linearDamping, h))
	b.angularVelocity = b.angularVelocity.Mul(math.Pow(1-b.angularDamping, h))

	b.position = b.position.Add(b.velocity.Mul(h))

	spin := mgl64.Quat{W: 0, V: b.angularVelocity}.Mul(b.orientation).Scale(0.5 * h)
	b.orientation = b.orientation.Add(spin).Normalize()

	b.clearStep()
}

func (b *Body) clearStep() {
	b.stepForce = mgl64.Vec3{}
	b.stepTorque = mgl64.Vec3{}
}

func (b *Body) clearExternal() {
	b.extForce = mgl64.Vec3{}
	b.extTorque = mgl64.Vec3{}
}

// resolveGround keeps the box above the ground plane.
func (b *Body) resolveGround(groundY float64) {
	if b.invMass == 0 {
		return
	}
	lowest := math.Inf(1)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corner := mgl64.Vec3{sx * b.halfExtents.X(), sy * b.halfExtents.Y(), sz * b.halfExtents.Z()}
				y := b.position.Y() + b.orientation.Rotate(corner).Y()
				lowest = math.Min(lowest, y)
			}
		}
	}
	if lowest >= groundY {
		return
	}
	b.position[1] += groundY - lowest
	if b.velocity.Y() < 0 {
		b.velocity[1] = 0
	}
	// Scraping contact: bleed off sliding and spin.
	b.velocity[0] *= 0.98
	b.velocity[2] *= 0.98
	b.angularVelocity = b.angularVelocity.Mul(0.95)
}

func inv(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
