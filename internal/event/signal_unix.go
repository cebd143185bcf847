//go:build !windows

package event

import (
	"os"
	"syscall"
)

// DefaultSignals maps SIGINT, SIGQUIT and SIGTERM to Quit and SIGUSR1 to
// TogglePause.
func DefaultSignals() map[os.Signal]Kind {
	return map[os.Signal]Kind{
		syscall.SIGINT:  Quit,
		syscall.SIGQUIT: Quit,
		syscall.SIGTERM: Quit,
		syscall.SIGUSR1: TogglePause,
	}
}
