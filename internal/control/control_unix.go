//go:build !windows

package control

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

func sendSignal(pid int, action Action) error {
	var sig syscall.Signal
	switch action {
	case Pause:
		sig = syscall.SIGUSR1
	case Stop:
		sig = syscall.SIGTERM
	default:
		return fmt.Errorf("control: unknown action %s", action)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("control: find process %d: %w", pid, err)
	}
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return ErrNotRunning
		}
		return fmt.Errorf("control: %s process %d: %w", action, pid, err)
	}
	return nil
}
