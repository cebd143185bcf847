// Package event merges the timer's independent event sources (a periodic
// tick, raw keyboard input and OS signals) into one ordered stream for a
// single consumer.
package event

import (
	"fmt"
	"time"
)

// Kind identifies the type of an event.
type Kind int

const (
	Tick        Kind = iota // One tick interval elapsed
	TogglePause             // Flip between running and paused
	Quit                    // Stop the timer
	Error                   // A source failed; Err holds the cause
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case Tick:
		return "tick"
	case TogglePause:
		return "toggle-pause"
	case Quit:
		return "quit"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a single item of the merged stream. Only Error events carry Err.
// Source names the producer and is informational.
type Event struct {
	Kind   Kind
	Source string
	Err    error
	At     time.Time
}

// PanicError wraps a recovered panic value together with the stack of the
// goroutine that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
