package flatworld

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// DefaultGravity is standard gravity along -Y.
var DefaultGravity = mgl64.Vec3{0, -9.82, 0}

// World owns bodies and vehicles over a ground plane at GroundY.
type World struct {
	Gravity mgl64.Vec3
	GroundY float64

	bodies      []*Body
	vehicles    []*Vehicle
	accumulator float64
	steps       uint64
}

var _ physics.World = (*World)(nil)

// New creates an empty world with default gravity and the ground at y=0.
func New() *World {
	return &World{Gravity: DefaultGravity}
}

// AddBody registers a free body.
func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

// AddVehicle registers a vehicle and its chassis.
func (w *World) AddVehicle(v *Vehicle) {
	w.vehicles = append(w.vehicles, v)
	w.bodies = append(w.bodies, v.chassis)
}

// SubSteps returns the total number of fixed sub-steps taken.
func (w *World) SubSteps() uint64 { return w.steps }

// Step advances the world by dt using fixed sub-steps. Time that does not fill
// a whole sub-step carries over to the next call; time beyond maxSubSteps is dropped.
// Forces and torques applied through the RigidBody interface act for every
// sub-step of the call and are cleared afterwards. A call too short to take a
// sub-step keeps them for the next call.
func (w *World) Step(fixedStep, dt float64, maxSubSteps int) {
	if fixedStep <= 0 || dt <= 0 {
		return
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}

	w.accumulator += dt
	taken := 0
	for w.accumulator >= fixedStep && taken < maxSubSteps {
		w.internalStep(fixedStep)
		w.accumulator -= fixedStep
		taken++
	}
	if taken == maxSubSteps && w.accumulator >= fixedStep {
		w.accumulator = math.Mod(w.accumulator, fixedStep)
	}

	if taken == 0 {
		return
	}
	for _, b := range w.bodies {
		b.clearExternal()
	}
}

func (w *World) internalStep(h float64) {
	for _, v := range w.vehicles {
		v.update(h, w.GroundY)
	}
	for _, b := range w.bodies {
		b.integrate(h, w.Gravity)
		b.resolveGround(w.GroundY)
	}
	w.steps++
}
