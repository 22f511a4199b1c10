package sim

import (
	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/physics/flatworld"
	"github.com/teslashibe/go-snowdrive/pkg/scene"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
)

// Flat is a ready-to-run setup on the reference flat-ground engine.
type Flat struct {
	World *flatworld.World
	Car   *flatworld.Vehicle
	Graph *scene.Graph
}

// NewFlat builds a world with the default car and an in-memory scene graph,
// and returns Options with default tuning wired to them.
func NewFlat() (Flat, Options) {
	w := flatworld.New()
	car := flatworld.NewCar(w, flatworld.DefaultCarSpec())
	g := scene.NewGraph()
	return Flat{World: w, Car: car, Graph: g}, Options{
		Config:  DefaultConfig(),
		Input:   input.DefaultConfig(),
		Vehicle: vehicle.DefaultConfig(),
		World:   w,
		Car:     car,
		Layout:  vehicle.DefaultLayout(),
		Visuals: vehicle.GraphVisuals(g),
	}
}
