package input

import "math"

// Conditioner smooths raw driver intent into Frames. It is owned by the
// simulation tick and is not safe for concurrent use.
type Conditioner struct {
	config Config

	steering       float64 // smoothed steering before drift shaping
	throttle       float64
	brake          float64
	driftIntensity float64
	spinFactor     float64
	lastDirection  float64 // sign of the last nonzero steering, for spins
}

// NewConditioner creates a conditioner at rest.
func NewConditioner(config Config) *Conditioner {
	dir := math.Copysign(1, config.DefaultSpinDirection)
	return &Conditioner{config: config, lastDirection: dir}
}

// Config returns the active configuration.
func (c *Conditioner) Config() Config {
	return c.config
}

// SetConfig swaps the tuning and keeps the smoothed state.
func (c *Conditioner) SetConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	c.config = config
	return nil
}

// Reset returns every smoothed value to rest.
func (c *Conditioner) Reset() {
	*c = *NewConditioner(c.config)
}

// Update advances the conditioner by dt seconds and returns this tick's Frame.
// dt is clamped to [0, MaxDT] so a stalled frame cannot produce a large jump.
func (c *Conditioner) Update(raw Raw, dt float64) Frame {
	dt = clamp(dt, 0, c.config.MaxDT)
	if math.IsNaN(dt) {
		dt = 0
	}

	target, held := c.steeringTarget(raw)
	c.updateSteering(target, held, dt)

	c.throttle = ramp(c.throttle, raw.Throttle, c.config.ThrottleRise, c.config.ThrottleFall, dt)
	c.brake = ramp(c.brake, raw.Brake, c.config.BrakeRise, c.config.BrakeFall, dt)

	c.driftIntensity = ramp(c.driftIntensity, raw.Drift, c.config.DriftBuild, c.config.DriftDecay, dt)
	spinning := raw.Drift && raw.Throttle
	c.spinFactor = approach(c.spinFactor, spinTarget(spinning, c.config.MaxSpin), rate(spinning, c.config.SpinBuild, c.config.SpinDecay)*dt)

	return Frame{
		Steering:       c.shapeSteering(raw),
		Throttle:       c.throttle,
		Brake:          c.brake,
		Handbrake:      raw.Handbrake,
		Reverse:        c.brake > c.config.ReverseThreshold,
		Boost:          raw.Boost,
		Drift:          raw.Drift,
		DriftIntensity: c.driftIntensity,
		SpinFactor:     c.spinFactor,
	}
}

// steeringTarget resolves keys first, then the pointer.
func (c *Conditioner) steeringTarget(raw Raw) (float64, bool) {
	switch {
	case raw.Left && !raw.Right:
		return -1, true
	case raw.Right && !raw.Left:
		return 1, true
	case raw.PointerActive && math.Abs(raw.PointerX) > c.config.PointerDeadZone:
		x := raw.PointerX
		if math.IsNaN(x) {
			return 0, false
		}
		return clamp(x*c.config.PointerSensitivity, -1, 1), true
	}
	return 0, false
}

func (c *Conditioner) updateSteering(target float64, held bool, dt float64) {
	if held {
		c.steering = approach(c.steering, target, c.config.SteeringSpeed*dt)
	} else if c.steering != 0 {
		c.steering = approach(c.steering, 0, c.config.SteeringReturn*dt)
		if math.Abs(c.steering) < c.config.SnapEpsilon {
			c.steering = 0
		}
	}
	c.steering = clamp(c.steering, -1, 1)
	if c.steering != 0 {
		c.lastDirection = math.Copysign(1, c.steering)
	}
}

// shapeSteering applies drift gain and the spin takeover.
func (c *Conditioner) shapeSteering(raw Raw) float64 {
	out := c.steering
	if !raw.Drift || c.driftIntensity <= c.config.DriftThreshold {
		return clamp(out, -1, 1)
	}

	out *= c.config.DriftMultiplier
	if c.spinFactor > c.config.SpinThreshold && raw.Throttle && math.Abs(c.steering) < c.config.SpinSteerLimit {
		out = c.lastDirection * c.spinFactor
	}
	return clamp(out, -c.config.ExtendedSteering, c.config.ExtendedSteering)
}

// ramp moves v toward 1 at rise/s while held and toward 0 at fall/s otherwise.
func ramp(v float64, held bool, rise, fall, dt float64) float64 {
	if held {
		return approach(v, 1, rise*dt)
	}
	return approach(v, 0, fall*dt)
}

func spinTarget(spinning bool, maxSpin float64) float64 {
	if spinning {
		return maxSpin
	}
	return 0
}

func rate(up bool, build, decay float64) float64 {
	if up {
		return build
	}
	return decay
}

// approach moves v toward target by at most step.
func approach(v, target, step float64) float64 {
	if v < target {
		return math.Min(v+step, target)
	}
	return math.Max(v-step, target)
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
