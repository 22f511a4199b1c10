package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrScript is returned for malformed scenario scripts.
var ErrScript = errors.New("input: invalid script")

// Source supplies one Raw sample per tick.
type Source interface {
	// Next returns the sample for the tick ending dt seconds after the previous
	// one. ok is false once the source is exhausted.
	Next(dt float64) (raw Raw, ok bool)
}

// Segment holds a Raw sample for a duration.
type Segment struct {
	Raw      Raw
	Duration time.Duration
}

// Script is a timed sequence of segments.
type Script struct {
	Segments []Segment

	elapsed time.Duration
}

// ParseScript parses a compact scenario such as
//
//	"throttle 5s; reverse 3s; drift+throttle+right 4s; idle 1s"
//
// Each segment is a '+'-joined set of controls followed by a duration.
// Controls: throttle, brake, reverse (alias of brake), left, right, drift,
// boost, handbrake, idle, pointer=<x>.
func ParseScript(text string) (*Script, error) {
	s := &Script{}
	for i, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: segment %d %q: want \"<controls> <duration>\"", ErrScript, i, part)
		}
		dur, err := time.ParseDuration(fields[1])
		if err != nil || dur <= 0 {
			return nil, fmt.Errorf("%w: segment %d: bad duration %q", ErrScript, i, fields[1])
		}
		raw, err := parseControls(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", ErrScript, i, err)
		}
		s.Segments = append(s.Segments, Segment{Raw: raw, Duration: dur})
	}
	if len(s.Segments) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrScript)
	}
	return s, nil
}

func parseControls(spec string) (Raw, error) {
	var raw Raw
	for _, c := range strings.Split(spec, "+") {
		switch {
		case c == "throttle":
			raw.Throttle = true
		case c == "brake", c == "reverse":
			raw.Brake = true
		case c == "left":
			raw.Left = true
		case c == "right":
			raw.Right = true
		case c == "drift":
			raw.Drift = true
		case c == "boost":
			raw.Boost = true
		case c == "handbrake":
			raw.Handbrake = true
		case c == "idle":
		case strings.HasPrefix(c, "pointer="):
			x, err := strconv.ParseFloat(strings.TrimPrefix(c, "pointer="), 64)
			if err != nil {
				return Raw{}, fmt.Errorf("bad pointer value %q", c)
			}
			raw.PointerActive = true
			raw.PointerX = x
		default:
			return Raw{}, fmt.Errorf("unknown control %q", c)
		}
	}
	return raw, nil
}

// Duration returns the total scripted time.
func (s *Script) Duration() time.Duration {
	var total time.Duration
	for _, seg := range s.Segments {
		total += seg.Duration
	}
	return total
}

// At returns the sample active at elapsed time t.
func (s *Script) At(t time.Duration) (Raw, bool) {
	for _, seg := range s.Segments {
		if t < seg.Duration {
			return seg.Raw, true
		}
		t -= seg.Duration
	}
	return Raw{}, false
}

// Next implements Source.
func (s *Script) Next(dt float64) (Raw, bool) {
	raw, ok := s.At(s.elapsed)
	s.elapsed += time.Duration(math.Round(dt * float64(time.Second)))
	return raw, ok
}

// Rewind restarts playback.
func (s *Script) Rewind() {
	s.elapsed = 0
}

// Constant is a Source that repeats one sample forever.
type Constant Raw

// Next implements Source.
func (c Constant) Next(float64) (Raw, bool) {
	return Raw(c), true
}
