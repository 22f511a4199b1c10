package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestRecorder_Stats(t *testing.T) {
	r, err := NewRecorder(noop.Meter{}, "test")
	require.NoError(t, err)
	ctx := context.Background()

	r.Record(ctx, Frame{Tick: 1, SpeedKmh: 1, Kicked: true})
	r.Record(ctx, Frame{Tick: 2, SpeedKmh: 141, Capped: true})
	r.Record(ctx, Frame{Tick: 3, SpeedKmh: 90, Correcting: true})

	assert.Equal(t, Stats{Ticks: 3, Corrections: 1, CapCuts: 1, Kicks: 1, TopSpeedKmh: 141}, r.Stats())
}

func TestRecorder_GlobalMeter(t *testing.T) {
	r, err := NewRecorder(nil, "global")
	require.NoError(t, err)
	r.Record(context.Background(), Frame{SpeedKmh: 10})
	assert.Equal(t, uint64(1), r.Stats().Ticks)
}

func TestMulti_FansOutInOrder(t *testing.T) {
	var got []string
	m := Multi{
		SinkFunc(func(_ context.Context, f Frame) { got = append(got, "a") }),
		SinkFunc(func(_ context.Context, f Frame) { got = append(got, "b") }),
	}
	m.Record(context.Background(), Frame{})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestLogSink_Every(t *testing.T) {
	var buf bytes.Buffer
	s := LogSink{
		Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Every:  10,
	}
	for i := uint64(0); i < 30; i++ {
		s.Record(context.Background(), Frame{Tick: i, SpeedKmh: 12.5, MovingForward: true})
	}
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("msg=telemetry")))
	assert.Contains(t, buf.String(), "direction=fwd")

	LogSink{}.Record(context.Background(), Frame{})
}

func TestFrame_Direction(t *testing.T) {
	assert.Equal(t, "stop", Frame{SpeedKmh: 0.2, MovingForward: true}.Direction())
	assert.Equal(t, "fwd", Frame{SpeedKmh: 20, MovingForward: true}.Direction())
	assert.Equal(t, "rev", Frame{SpeedKmh: 20}.Direction())
}

func TestFrame_String(t *testing.T) {
	s := Frame{Time: 1.5, SpeedKmh: 42, MovingForward: true, Drift: true, Boost: true, DriveMode: "forward"}.String()
	assert.Contains(t, s, "42.0 km/h")
	assert.Contains(t, s, "fwd")
	assert.Contains(t, s, "[BOOST DRIFT]")
}
