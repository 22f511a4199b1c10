// Package input turns raw driver intent into a smoothed, bounded Frame once per tick.
package input

// Raw is the driver intent sampled for one tick: held keys and the pointer.
type Raw struct {
	Left      bool
	Right     bool
	Throttle  bool
	Brake     bool
	Drift     bool
	Boost     bool
	Handbrake bool

	// PointerActive is true while the pointer is steering (e.g. mouse held).
	PointerActive bool
	// PointerX is the normalized horizontal pointer position (-1 left .. +1 right).
	PointerX float64
}

// Frame is the conditioned input handed to the vehicle controller for one tick.
// It is a value: the controller never sees later changes.
type Frame struct {
	Steering       float64 `json:"steering"` // -1..1, up to ±ExtendedSteering while drifting
	Throttle       float64 `json:"throttle"` // 0..1
	Brake          float64 `json:"brake"`    // 0..1
	Handbrake      bool    `json:"handbrake"`
	Reverse        bool    `json:"reverse"` // Brake above ReverseThreshold
	Boost          bool    `json:"boost"`
	Drift          bool    `json:"drift"`
	DriftIntensity float64 `json:"drift_intensity"` // 0..1
	SpinFactor     float64 `json:"spin_factor"`     // 0..MaxSpin
}

// WithDerivedReverse returns f with Reverse recomputed from Brake.
// Use it when building frames by hand rather than through a Conditioner.
func (f Frame) WithDerivedReverse(threshold float64) Frame {
	f.Reverse = f.Brake > threshold
	return f
}
