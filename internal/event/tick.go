package event

import (
	"context"
	"time"
)

// Clock abstracts the time operations the tick source needs so tests can
// drive it without sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

// TickSource emits a Tick every Interval.
//
// Ticks are scheduled on a fixed timeline (start + n*Interval) and sent with
// a blocking send. If the consumer falls behind, the ticks it missed are sent
// back to back once it catches up instead of being dropped.
type TickSource struct {
	Interval time.Duration
	Clock    Clock // defaults to RealClock
}

// NewTickSource creates a TickSource on the real clock.
func NewTickSource(interval time.Duration) *TickSource {
	return &TickSource{Interval: interval, Clock: RealClock()}
}

// Name implements Source.
func (s *TickSource) Name() string { return "tick" }

// Run implements Source.
func (s *TickSource) Run(ctx context.Context, out chan<- Event) error {
	clk := s.Clock
	if clk == nil {
		clk = RealClock()
	}
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}

	next := clk.Now()
	for {
		next = next.Add(interval)
		if wait := next.Sub(clk.Now()); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-clk.After(wait):
			}
		}
		if !send(ctx, out, Event{Kind: Tick, Source: s.Name(), At: next}) {
			return nil
		}
	}
}
