//go:build windows

package event

import "os"

// DefaultSignals maps os.Interrupt to Quit. Windows has no user signal, so
// pausing is keyboard-only there.
func DefaultSignals() map[os.Signal]Kind {
	return map[os.Signal]Kind{
		os.Interrupt: Quit,
	}
}
