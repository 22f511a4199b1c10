// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Physics controls whether per-tick controller traces are logged (forces,
// steering, tilt). Use --debug-physics to enable these very verbose logs
var Physics bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...any) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}
