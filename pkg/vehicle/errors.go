package vehicle

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotAttached is returned when the controller has no physics vehicle yet.
	ErrNotAttached = errors.New("vehicle: not attached")

	// ErrWheelLayout is returned when the slot to wheel mapping does not match
	// the physics vehicle.
	ErrWheelLayout = errors.New("vehicle: wheel layout mismatch")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("vehicle: invalid config")
)

// LayoutError describes one slot that failed layout validation.
type LayoutError struct {
	// Slot is the logical wheel position.
	Slot WheelSlot

	// Index is the physics wheel index the slot was mapped to.
	Index int

	// Reason says what did not match.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *LayoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vehicle: wheel layout: %s -> wheel %d: %s: %v", e.Slot, e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("vehicle: wheel layout: %s -> wheel %d: %s", e.Slot, e.Index, e.Reason)
}

// Unwrap matches ErrWheelLayout and the underlying cause.
func (e *LayoutError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrWheelLayout, e.Err}
	}
	return []error{ErrWheelLayout}
}
