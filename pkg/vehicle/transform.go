package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
	"github.com/teslashibe/go-snowdrive/pkg/scene"
)

var steeringWheelAxis = mgl64.Vec3{0, 0, 1}

// Visuals are the scene nodes the synchronizer writes to. Nil nodes are skipped.
type Visuals struct {
	Chassis       scene.Node
	SteeringWheel scene.Node
	Wheels        [NumSlots]scene.Node
}

// GraphVisuals looks up or creates the standard node names in a graph:
// "chassis", "steering-wheel" and one node per slot name.
func GraphVisuals(g *scene.Graph) Visuals {
	v := Visuals{
		Chassis:       g.Node("chassis"),
		SteeringWheel: g.Node("steering-wheel"),
	}
	for _, s := range Slots {
		v.Wheels[s] = g.Node("wheel/" + s.String())
	}
	return v
}

// Synchronizer copies post-step physics transforms to visual nodes.
type Synchronizer struct {
	correction mgl64.Quat
	layout     WheelLayout
}

// NewSynchronizer creates a synchronizer that rotates the chassis node by
// correction and maps wheel slots through layout.
func NewSynchronizer(correction mgl64.Quat, layout WheelLayout) *Synchronizer {
	return &Synchronizer{correction: correction, layout: layout}
}

// Sync writes chassis, wheel and steering-wheel transforms. It reads physics
// state only, so calling it twice without a step writes the same values.
func (s *Synchronizer) Sync(v physics.Vehicle, vis Visuals, steeringWheel float64) {
	if v == nil {
		return
	}
	body := v.Chassis()
	if vis.Chassis != nil {
		vis.Chassis.SetPosition(body.Position())
		vis.Chassis.SetOrientation(body.Orientation().Mul(s.correction))
	}
	for _, slot := range Slots {
		node := vis.Wheels[slot]
		if node == nil {
			continue
		}
		t := v.UpdateWheelTransform(s.layout.Index(slot))
		node.SetPosition(t.Position)
		node.SetOrientation(t.Orientation)
	}
	if vis.SteeringWheel != nil {
		vis.SteeringWheel.SetOrientation(mgl64.QuatRotate(steeringWheel, steeringWheelAxis))
	}
}
