package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// Source produces events until ctx is cancelled or it runs dry. Run must stop
// sending once ctx is done. A non-nil error is forwarded to the consumer as an
// Error event.
type Source interface {
	Name() string
	Run(ctx context.Context, out chan<- Event) error
}

// DefaultBuffer is the capacity of the merged channel.
const DefaultBuffer = 64

// Mux runs every source in its own goroutine and funnels their events into a
// single channel read by Next.
//
// Events from one source arrive in the order that source sent them. Events
// from different sources interleave in whatever order they became ready;
// there is no priority between sources and ties are not deterministic.
type Mux struct {
	sources []Source
	out     chan Event

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// NewMux creates a Mux over the given sources. Call Start before Next.
func NewMux(sources ...Source) *Mux {
	return &Mux{
		sources: sources,
		out:     make(chan Event, DefaultBuffer),
	}
}

// Start launches all sources. The merged stream ends once every source has
// returned. Calling Start more than once is a no-op.
func (m *Mux) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)
	for _, src := range m.sources {
		m.wg.Add(1)
		go m.run(ctx, src)
	}
	go func() {
		m.wg.Wait()
		close(m.out)
	}()
}

// Next blocks until any source produces an event. It returns false when the
// stream has ended or ctx is done.
func (m *Mux) Next(ctx context.Context) (Event, bool) {
	select {
	case <-ctx.Done():
		return Event{}, false
	case ev, ok := <-m.out:
		return ev, ok
	}
}

// Close cancels all sources. It does not wait for them; a source blocked in a
// read it cannot interrupt exits with the process.
func (m *Mux) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Mux) run(ctx context.Context, src Source) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			send(ctx, m.out, Event{
				Kind:   Error,
				Source: src.Name(),
				Err:    &PanicError{Value: r, Stack: debug.Stack()},
				At:     time.Now(),
			})
		}
	}()

	if err := src.Run(ctx, m.out); err != nil && ctx.Err() == nil {
		send(ctx, m.out, Event{
			Kind:   Error,
			Source: src.Name(),
			Err:    fmt.Errorf("event: %s source: %w", src.Name(), err),
			At:     time.Now(),
		})
	}
}

// send delivers ev unless ctx is done first. It reports whether ev was sent.
func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- ev:
		return true
	}
}
