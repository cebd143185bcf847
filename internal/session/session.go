// Package session implements the Pomodoro session clock: the fixed
// Work/Break/LongBreak cycle and the elapsed-time bookkeeping of the
// session currently running.
package session

import (
	"fmt"
	"time"
)

// Kind identifies the type of a session.
type Kind int

const (
	Work      Kind = iota // Focused work
	Break                 // Short break
	LongBreak             // Long break, every eighth session
)

// String returns the config/log key for the kind.
func (k Kind) String() string {
	switch k {
	case Work:
		return "work"
	case Break:
		return "break"
	case LongBreak:
		return "long_break"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindForIndex maps a 1-based session index to its kind. The result repeats
// every eight sessions: Work, Break, Work, Break, Work, Break, Work, LongBreak.
func KindForIndex(index int) Kind {
	switch {
	case index%8 == 0:
		return LongBreak
	case index%2 == 0:
		return Break
	default:
		return Work
	}
}

// Durations holds the configured length of each session kind.
type Durations struct {
	Work      time.Duration
	Break     time.Duration
	LongBreak time.Duration
}

// For returns the configured duration for kind.
func (d Durations) For(kind Kind) time.Duration {
	switch kind {
	case Break:
		return d.Break
	case LongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Session is one timed phase of the cycle. Index and Kind are fixed at
// construction; only Elapsed changes, and only through Tick.
type Session struct {
	Index    int
	Kind     Kind
	Duration time.Duration
	Elapsed  time.Duration
}

// New creates the session at index with its duration looked up in durations.
func New(index int, durations Durations) Session {
	kind := KindForIndex(index)
	return Session{
		Index:    index,
		Kind:     kind,
		Duration: durations.For(kind),
	}
}

// Tick adds delta to the elapsed time. Callers skip it while paused.
func (s *Session) Tick(delta time.Duration) {
	s.Elapsed += delta
}

// Finished reports whether the session ran strictly past its duration.
// A session sitting exactly on its boundary is still running.
func (s Session) Finished() bool {
	return s.Elapsed > s.Duration
}

// Remaining returns Duration - Elapsed. It is negative only for a finished
// session, which the loop replaces before anything reads it.
func (s Session) Remaining() time.Duration {
	return s.Duration - s.Elapsed
}

// Next returns the successor session. Overrun is not carried forward.
func (s Session) Next(durations Durations) Session {
	return New(s.Index+1, durations)
}

// String formats the session for logs, e.g. "#3 work".
func (s Session) String() string {
	return fmt.Sprintf("#%d %s", s.Index, s.Kind)
}
