// Package control lets one pomo process steer another: the running timer
// records its PID in a pidfile, and the pause and stop commands signal it.
package control

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotRunning is returned when no live timer owns the pidfile.
var ErrNotRunning = errors.New("control: pomo is not running")

// Action is a request sent to a running timer.
type Action int

const (
	Pause Action = iota // Toggle pause
	Stop                // Quit and restore the terminal
)

// String returns the command name for the action.
func (a Action) String() string {
	switch a {
	case Pause:
		return "pause"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// DefaultPath returns the pidfile location: pomo/pomo.pid under the user
// cache directory, or the temp directory when there is none.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pomo", "pomo.pid")
}

// PIDFile is the pidfile of the running timer. Its file stays open and
// locked until Release, which is how Send tells a live timer from a stale
// file left behind by a crash.
type PIDFile struct {
	path string
	pid  int
	f    *os.File
}

// Create records pid in path, creating its directory if needed, and holds a
// lock on it. The file is written to a temp name, locked and renamed so
// readers never see a partial PID or an unlocked live file. A pidfile held by
// another live timer is an error.
func Create(path string, pid int) (*PIDFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("control: create pid dir: %w", err)
	}
	if held, err := locked(path); err == nil && held {
		other, _ := ReadPID(path)
		return nil, fmt.Errorf("control: pomo is already running (pid %d)", other)
	}

	tmp, err := os.CreateTemp(dir, ".pomo-pid-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("control: create temp pidfile: %w", err)
	}
	fail := func(format string, err error) (*PIDFile, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf(format, err)
	}
	if lockErr := lock(tmp); lockErr != nil {
		return fail("control: lock pidfile: %w", lockErr)
	}
	if _, writeErr := tmp.WriteString(strconv.Itoa(pid) + "\n"); writeErr != nil {
		return fail("control: write pidfile: %w", writeErr)
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		return fail("control: sync pidfile: %w", syncErr)
	}
	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		return fail("control: finalize pidfile: %w", renameErr)
	}
	return &PIDFile{path: path, pid: pid, f: tmp}, nil
}

// Release deletes the pidfile if it still holds this PID, then drops the
// lock. A pidfile taken over by a newer process is left alone.
func (p *PIDFile) Release() error {
	var errs []error
	current, err := ReadPID(p.path)
	switch {
	case err == nil && current == p.pid:
		if rmErr := os.Remove(p.path); rmErr != nil && !os.IsNotExist(rmErr) {
			errs = append(errs, fmt.Errorf("control: remove pidfile: %w", rmErr))
		}
	case err != nil && !errors.Is(err, ErrNotRunning):
		errs = append(errs, err)
	}
	if closeErr := p.f.Close(); closeErr != nil {
		errs = append(errs, fmt.Errorf("control: close pidfile: %w", closeErr))
	}
	return errors.Join(errs...)
}

// ReadPID returns the PID stored in path. A missing file is ErrNotRunning.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("control: read pidfile: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("control: parse pidfile %s: invalid pid %q", path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// Send delivers action to the timer recorded in path. A pidfile nobody
// holds the lock on was left by a timer that died, and its PID may belong to
// an unrelated process by now: that is ErrNotRunning and nothing is sent.
func Send(path string, action Action) (int, error) {
	pid, err := ReadPID(path)
	if err != nil {
		return 0, err
	}
	held, err := locked(path)
	if err != nil {
		return 0, err
	}
	if !held {
		return 0, ErrNotRunning
	}
	if err := sendSignal(pid, action); err != nil {
		return pid, err
	}
	return pid, nil
}
