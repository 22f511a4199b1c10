package telemetry

import (
	"context"
	"log/slog"
)

// Sink receives every published frame. Implementations must not block the
// tick for long.
type Sink interface {
	Record(ctx context.Context, f Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Frame)

// Record implements Sink.
func (fn SinkFunc) Record(ctx context.Context, f Frame) { fn(ctx, f) }

// Multi fans a frame out to several sinks in order.
type Multi []Sink

// Record implements Sink.
func (m Multi) Record(ctx context.Context, f Frame) {
	for _, s := range m {
		s.Record(ctx, f)
	}
}

// LogSink logs every Nth frame at debug level.
type LogSink struct {
	Logger *slog.Logger
	Every  uint64
}

// Record implements Sink.
func (s LogSink) Record(ctx context.Context, f Frame) {
	if s.Logger == nil || (s.Every > 1 && f.Tick%s.Every != 0) {
		return
	}
	s.Logger.DebugContext(ctx, "telemetry",
		"tick", f.Tick,
		"speed_kmh", f.SpeedKmh,
		"direction", f.Direction(),
		"drive", f.DriveMode,
		"steer", f.SteeringAngle,
		"tilt_deg", f.TiltDeg)
}
