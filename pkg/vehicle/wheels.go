package vehicle

import (
	"fmt"

	"github.com/teslashibe/go-snowdrive/pkg/physics"
)

// WheelSlot is a logical wheel position on the car.
type WheelSlot int

// Wheel slots. The numbering is the default physics wheel order.
const (
	FrontLeft WheelSlot = iota
	FrontRight
	BackLeft
	BackRight

	NumSlots = 4
)

// Slots lists every slot in order.
var Slots = [NumSlots]WheelSlot{FrontLeft, FrontRight, BackLeft, BackRight}

func (s WheelSlot) String() string {
	switch s {
	case FrontLeft:
		return "front-left"
	case FrontRight:
		return "front-right"
	case BackLeft:
		return "back-left"
	case BackRight:
		return "back-right"
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// Front reports whether the slot is on the steered axle.
func (s WheelSlot) Front() bool { return s == FrontLeft || s == FrontRight }

// Left reports whether the slot is on the left side.
func (s WheelSlot) Left() bool { return s == FrontLeft || s == BackLeft }

// WheelLayout maps each slot to a physics wheel index.
type WheelLayout [NumSlots]int

// DefaultLayout maps slots to wheels 0..3 in slot order.
func DefaultLayout() WheelLayout {
	return WheelLayout{0, 1, 2, 3}
}

// Index returns the physics wheel index for a slot.
func (l WheelLayout) Index(s WheelSlot) int { return l[s] }

// Validate checks the layout against a physics vehicle: every index must
// exist, be used once, and point at a wheel whose axle and side match the slot.
func (l WheelLayout) Validate(v physics.Vehicle) error {
	if v == nil {
		return ErrNotAttached
	}
	seen := make(map[int]WheelSlot, NumSlots)
	for _, slot := range Slots {
		idx := l[slot]
		if prev, dup := seen[idx]; dup {
			return &LayoutError{Slot: slot, Index: idx, Reason: "already used by " + prev.String()}
		}
		seen[idx] = slot

		opts, err := v.WheelOptions(idx)
		if err != nil {
			return &LayoutError{Slot: slot, Index: idx, Reason: "no such wheel", Err: err}
		}
		if opts.IsFront != slot.Front() {
			return &LayoutError{Slot: slot, Index: idx, Reason: "axle mismatch"}
		}
		cp := opts.ConnectionPoint
		if (cp.X() < 0) != slot.Left() {
			return &LayoutError{Slot: slot, Index: idx, Reason: fmt.Sprintf("side mismatch (x=%.2f)", cp.X())}
		}
		if cp.Z() != 0 && (cp.Z() < 0) != slot.Front() {
			return &LayoutError{Slot: slot, Index: idx, Reason: fmt.Sprintf("connection point behind/ahead of axle (z=%.2f)", cp.Z())}
		}
	}
	return nil
}
