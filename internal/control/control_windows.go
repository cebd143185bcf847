//go:build windows

package control

import (
	"errors"
	"fmt"
)

func sendSignal(pid int, action Action) error {
	return fmt.Errorf("control: %s process %d: %w", action, pid, errors.ErrUnsupported)
}
