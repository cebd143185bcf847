// Package terminal brackets the controlling terminal for an in-place display:
// raw input mode on the way in, an anchored redraw area while running, and a
// best-effort restore on the way out.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Terminal drives an input file descriptor and an output writer. The zero
// value is not usable; construct with New or Stdio.
type Terminal struct {
	in  *os.File
	out io.Writer

	mu       sync.Mutex
	state    *term.State
	enabled  bool
	restored bool
}

// New creates a Terminal reading from in and drawing to out.
func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Stdio creates a Terminal on the process's stdin and stdout.
func Stdio() *Terminal {
	return New(os.Stdin, os.Stdout)
}

// EnableRaw switches the input to raw mode (no line buffering, no echo, no
// signal keys), saves the cursor position as the drawing anchor and hides
// the cursor. Raw mode is skipped when the input is not a terminal.
func (t *Terminal) EnableRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.in != nil && term.IsTerminal(int(t.in.Fd())) {
		state, err := term.MakeRaw(int(t.in.Fd()))
		if err != nil {
			return fmt.Errorf("terminal: enable raw mode: %w", err)
		}
		t.state = state
	}

	if _, err := io.WriteString(t.out, ansi.SaveCursor+ansi.HideCursor); err != nil {
		if t.state != nil {
			_ = term.Restore(int(t.in.Fd()), t.state)
			t.state = nil
		}
		return fmt.Errorf("terminal: save cursor: %w", err)
	}
	t.enabled = true
	t.restored = false
	return nil
}

// Render redraws text at the anchor, clearing whatever was drawn before.
// Text must use "\n\r" line endings since raw mode disables the implicit
// carriage return.
func (t *Terminal) Render(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.out, ansi.RestoreCursor+ansi.EraseScreenBelow+text); err != nil {
		return fmt.Errorf("terminal: render: %w", err)
	}
	return nil
}

// Restore clears the drawing area, shows the cursor and leaves raw mode.
// Every step is attempted even if an earlier one fails; the failures are
// joined. Calling Restore more than once, or without EnableRaw, is a no-op.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled || t.restored {
		return nil
	}
	t.restored = true

	var errs []error
	if _, err := io.WriteString(t.out, ansi.RestoreCursor+ansi.EraseScreenBelow+ansi.ShowCursor); err != nil {
		errs = append(errs, fmt.Errorf("terminal: restore cursor: %w", err))
	}
	if t.state != nil {
		if err := term.Restore(int(t.in.Fd()), t.state); err != nil {
			errs = append(errs, fmt.Errorf("terminal: disable raw mode: %w", err))
		}
		t.state = nil
	}
	return errors.Join(errs...)
}

// IsRaw reports whether raw mode is currently active.
func (t *Terminal) IsRaw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != nil
}
