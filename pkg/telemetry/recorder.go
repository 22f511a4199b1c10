package telemetry

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/teslashibe/go-snowdrive/pkg/telemetry"

// Stats are running totals kept alongside the exported metrics.
type Stats struct {
	Ticks       uint64  `json:"ticks"`
	Corrections uint64  `json:"corrections"`
	CapCuts     uint64  `json:"cap_cuts"`
	Kicks       uint64  `json:"kicks"`
	TopSpeedKmh float64 `json:"top_speed_kmh"`
}

// Recorder records frames as OpenTelemetry metrics. It uses the global meter
// unless one is given, so it is a no-op until an SDK is installed.
type Recorder struct {
	ticks       metric.Int64Counter
	speed       metric.Float64Histogram
	corrections metric.Int64Counter
	capCuts     metric.Int64Counter
	kicks       metric.Int64Counter
	attrs       metric.MeasurementOption

	mu    sync.Mutex
	stats Stats
}

// NewRecorder creates the instruments on m (or the global meter if m is nil).
func NewRecorder(m metric.Meter, sessionID string) (*Recorder, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	r := &Recorder{
		attrs: metric.WithAttributes(attribute.String("session.id", sessionID)),
	}

	var err error
	if r.ticks, err = m.Int64Counter("snowdrive.ticks",
		metric.WithDescription("Simulation ticks executed")); err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	if r.speed, err = m.Float64Histogram("snowdrive.speed",
		metric.WithDescription("Vehicle speed per tick"),
		metric.WithUnit("km/h")); err != nil {
		return nil, fmt.Errorf("creating speed histogram: %w", err)
	}
	if r.corrections, err = m.Int64Counter("snowdrive.stability.corrections",
		metric.WithDescription("Ticks with an anti-flip torque")); err != nil {
		return nil, fmt.Errorf("creating correction counter: %w", err)
	}
	if r.capCuts, err = m.Int64Counter("snowdrive.engine.cap_cuts",
		metric.WithDescription("Ticks where a speed cap zeroed the engine")); err != nil {
		return nil, fmt.Errorf("creating cap counter: %w", err)
	}
	if r.kicks, err = m.Int64Counter("snowdrive.engine.kicks",
		metric.WithDescription("Standstill kick impulses applied")); err != nil {
		return nil, fmt.Errorf("creating kick counter: %w", err)
	}
	return r, nil
}

// Record implements Sink.
func (r *Recorder) Record(ctx context.Context, f Frame) {
	r.ticks.Add(ctx, 1, r.attrs)
	r.speed.Record(ctx, f.SpeedKmh, r.attrs)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Ticks++
	r.stats.TopSpeedKmh = math.Max(r.stats.TopSpeedKmh, f.SpeedKmh)
	if f.Correcting {
		r.corrections.Add(ctx, 1, r.attrs)
		r.stats.Corrections++
	}
	if f.Capped {
		r.capCuts.Add(ctx, 1, r.attrs)
		r.stats.CapCuts++
	}
	if f.Kicked {
		r.kicks.Add(ctx, 1, r.attrs)
		r.stats.Kicks++
	}
}

// Stats returns a snapshot of the running totals.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
