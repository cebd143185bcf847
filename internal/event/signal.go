package event

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"
)

// SignalSource turns OS signals into events so another process can pause or
// stop the timer without terminal focus.
//
// Signals are caught from the moment Listen is called, not from when Run
// starts, so a signal arriving while the rest of the timer is being wired is
// queued instead of getting the runtime's default action.
type SignalSource struct {
	Signals map[os.Signal]Kind

	mu sync.Mutex
	ch chan os.Signal
}

// NewSignalSource creates a SignalSource with the platform's default mapping
// and starts listening immediately.
func NewSignalSource() *SignalSource {
	s := &SignalSource{Signals: DefaultSignals()}
	s.Listen()
	return s
}

// Listen registers for s.Signals. It is called by NewSignalSource and by
// Run; calling it again is a no-op.
func (s *SignalSource) Listen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil || len(s.Signals) == 0 {
		return
	}
	sigs := make([]os.Signal, 0, len(s.Signals))
	for sig := range s.Signals {
		sigs = append(sigs, sig)
	}
	s.ch = make(chan os.Signal, len(sigs))
	signal.Notify(s.ch, sigs...)
}

// Name implements Source.
func (s *SignalSource) Name() string { return "signal" }

// Run implements Source. Registration ends when Run returns.
func (s *SignalSource) Run(ctx context.Context, out chan<- Event) error {
	s.Listen()
	s.mu.Lock()
	ch := s.ch
	s.mu.Unlock()
	if ch == nil {
		return nil
	}
	defer s.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-ch:
			if !send(ctx, out, Event{Kind: s.Signals[sig], Source: s.Name(), At: time.Now()}) {
				return nil
			}
		}
	}
}

func (s *SignalSource) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		signal.Stop(s.ch)
		s.ch = nil
	}
}
