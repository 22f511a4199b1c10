package flatworld

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// CarSpec describes a four-wheel car for NewCar.
type CarSpec struct {
	Mass        float64
	HalfExtents mgl64.Vec3
	Spawn       mgl64.Vec3

	// Track is the lateral distance between left and right connection points.
	Track float64
	// Wheelbase is the longitudinal distance between front and rear axles.
	Wheelbase float64

	Wheel physics.WheelOptions
}

// DefaultCarSpec returns a mid-size car tuned for this engine's SI units.
func DefaultCarSpec() CarSpec {
	return CarSpec{
		Mass:        800,
		HalfExtents: mgl64.Vec3{0.9, 0.35, 2.0},
		Spawn:       mgl64.Vec3{0, 0.75, 0},
		Track:       1.7,
		Wheelbase:   2.6,
		Wheel: physics.WheelOptions{
			Radius:               0.4,
			SuspensionStiffness:  30000,
			SuspensionRestLength: 0.35,
			DampingRelaxation:    2300,
			DampingCompression:   2600,
			MaxSuspensionForce:   40000,
			RollInfluence:        0.05,
			FrictionSlip:         1.6,
		},
	}
}

// NewCar builds a chassis with four wheels added in front-left, front-right,
// back-left, back-right order and registers it with the world.
func NewCar(w *World, spec CarSpec) *Vehicle {
	chassis := NewBody(BodyOptions{
		Mass:           spec.Mass,
		HalfExtents:    spec.HalfExtents,
		Position:       spec.Spawn,
		Orientation:    mgl64.QuatIdent(),
		LinearDamping:  0.01,
		AngularDamping: 0.3,
	})
	v := NewVehicle(chassis)

	halfTrack := spec.Track / 2
	halfBase := spec.Wheelbase / 2
	corners := []struct {
		x, z  float64
		front bool
	}{
		{-halfTrack, -halfBase, true},
		{halfTrack, -halfBase, true},
		{-halfTrack, halfBase, false},
		{halfTrack, halfBase, false},
	}
	for _, c := range corners {
		opts := spec.Wheel
		opts.ConnectionPoint = mgl64.Vec3{c.x, 0, c.z}
		opts.IsFront = c.front
		v.AddWheel(opts)
	}

	w.AddVehicle(v)
	return v
}
