package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/pomo/internal/event"
	"github.com/LISSConsulting/pomo/internal/session"
)

// recorder collects terminal and notifier calls in the order they happen.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// fakeTerminal is a test double for Terminal.
type fakeTerminal struct {
	rec        *recorder
	enableErr  error
	renderErr  error
	restoreErr error
}

func (f *fakeTerminal) EnableRaw() error {
	f.rec.add("enable")
	return f.enableErr
}

func (f *fakeTerminal) Render(text string) error {
	f.rec.add("render %s", text)
	return f.renderErr
}

func (f *fakeTerminal) Restore() error {
	f.rec.add("restore")
	return f.restoreErr
}

// recordingNotifier is a test double for notify.Notifier.
type recordingNotifier struct {
	rec        *recorder
	startedErr error
	endedErr   error
}

func (n *recordingNotifier) SessionStarted(s session.Session) error {
	n.rec.add("started %s", s)
	return n.startedErr
}

func (n *recordingNotifier) SessionEnded(s session.Session) error {
	n.rec.add("ended %s", s)
	return n.endedErr
}

// plainFormatter renders "index kind remaining" plus "paused" when paused.
type plainFormatter struct{}

func (plainFormatter) Format(s session.Session, paused bool) string {
	text := fmt.Sprintf("%d %s %d", s.Index, s.Kind, s.Remaining())
	if paused {
		text += " paused"
	}
	return text
}

type panicFormatter struct{ after int }

func (p *panicFormatter) Format(s session.Session, paused bool) string {
	if p.after == 0 {
		panic("formatter exploded")
	}
	p.after--
	return "ok"
}

// script replays a fixed list of events, then reports end of stream.
type script struct {
	events []event.Event
}

func (s *script) Next(ctx context.Context) (event.Event, bool) {
	if ctx.Err() != nil || len(s.events) == 0 {
		return event.Event{}, false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

func events(kinds ...event.Kind) *script {
	s := &script{}
	for _, k := range kinds {
		s.events = append(s.events, event.Event{Kind: k, Source: "test"})
	}
	return s
}

func repeat(kind event.Kind, n int) []event.Kind {
	kinds := make([]event.Kind, n)
	for i := range kinds {
		kinds[i] = kind
	}
	return kinds
}

// testDurations uses one nanosecond per tick: work 2, break 1, long break 3.
var testDurations = session.Durations{Work: 2, Break: 1, LongBreak: 3}

func newTestApp(evs Events) (*App, *recorder) {
	rec := &recorder{}
	return &App{
		Events:    evs,
		Terminal:  &fakeTerminal{rec: rec},
		Display:   plainFormatter{},
		Notifier:  &recordingNotifier{rec: rec},
		Durations: testDurations,
		Tick:      1,
	}, rec
}

func TestRun_SessionCycleTrace(t *testing.T) {
	kinds := append(repeat(event.Tick, 5), event.Quit)
	a, rec := newTestApp(events(kinds...))

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	want := []string{
		"enable",
		"started #1 work",
		"render 1 work 2",
		"render 1 work 1", // tick 1
		"render 1 work 0", // tick 2: on the boundary, still running
		"ended #1 work",   // tick 3
		"started #2 break",
		"render 2 break 1",
		"render 2 break 0", // tick 4
		"ended #2 break",   // tick 5
		"started #3 work",
		"render 3 work 2",
		"restore",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", rec.calls, want)
	}
}

func TestRun_LongBreakEveryEighthSession(t *testing.T) {
	a, _ := newTestApp(events(repeat(event.Tick, 7)...))
	a.Durations = session.Durations{}

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	s, _ := a.State()
	if s.Index != 8 || s.Kind != session.LongBreak {
		t.Errorf("session = %s, want #8 long_break", s)
	}
	if s.Elapsed != 0 {
		t.Errorf("elapsed = %v, overrun carried into the new session", s.Elapsed)
	}
}

func TestRun_Pause(t *testing.T) {
	tests := []struct {
		name        string
		kinds       []event.Kind
		wantElapsed time.Duration
		wantPaused  bool
	}{
		{"ticks while paused are ignored", []event.Kind{event.Tick, event.TogglePause, event.Tick, event.Tick}, 1, true},
		{"toggle twice resumes", []event.Kind{event.TogglePause, event.Tick, event.TogglePause, event.Tick}, 1, false},
		{"pause alone keeps elapsed", []event.Kind{event.Tick, event.TogglePause}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(events(tt.kinds...))
			a.Durations = session.Durations{Work: 10, Break: 10, LongBreak: 10}

			if err := a.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			s, paused := a.State()
			if s.Elapsed != tt.wantElapsed {
				t.Errorf("elapsed = %v, want %v", s.Elapsed, tt.wantElapsed)
			}
			if paused != tt.wantPaused {
				t.Errorf("paused = %v, want %v", paused, tt.wantPaused)
			}
		})
	}
}

func TestRun_PauseRenders(t *testing.T) {
	a, rec := newTestApp(events(event.TogglePause, event.Tick, event.TogglePause))

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"enable",
		"started #1 work",
		"render 1 work 2",
		"render 1 work 2 paused",
		"render 1 work 2 paused",
		"render 1 work 2",
		"restore",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", rec.calls, want)
	}
}

func TestRun_QuitStopsBeforeRemainingEvents(t *testing.T) {
	evs := events(event.Tick, event.Quit, event.Tick, event.Tick)
	a, rec := newTestApp(evs)

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(evs.events) != 2 {
		t.Errorf("%d events left unread, want 2", len(evs.events))
	}
	if last := rec.calls[len(rec.calls)-1]; last != "restore" {
		t.Errorf("last call = %q, want restore", last)
	}
	if got := rec.calls[len(rec.calls)-2]; got != "render 1 work 1" {
		t.Errorf("call before restore = %q, want the tick render", got)
	}
}

func TestRun_EndOfStreamActsAsQuit(t *testing.T) {
	a, rec := newTestApp(events())

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"enable", "started #1 work", "render 1 work 2", "restore"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", rec.calls, want)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, rec := newTestApp(events(event.Tick, event.Tick))

	if err := a.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if last := rec.calls[len(rec.calls)-1]; last != "restore" {
		t.Errorf("last call = %q, want restore", last)
	}
}

func TestRun_ErrorEvent(t *testing.T) {
	errRead := errors.New("read /dev/tty: input/output error")
	evs := &script{events: []event.Event{
		{Kind: event.Tick, Source: "tick"},
		{Kind: event.Error, Source: "input", Err: errRead},
		{Kind: event.Tick, Source: "tick"},
	}}
	a, rec := newTestApp(evs)

	err := a.Run(context.Background())
	if !errors.Is(err, errRead) {
		t.Fatalf("Run() = %v, want %v", err, errRead)
	}
	want := []string{"enable", "started #1 work", "render 1 work 2", "render 1 work 1", "restore"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", rec.calls, want)
	}
}

func TestRun_ErrorEventWithoutCause(t *testing.T) {
	a, _ := newTestApp(&script{events: []event.Event{{Kind: event.Error, Source: "signal"}}})

	err := a.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "signal source failed") {
		t.Errorf("Run() = %v, want error naming the source", err)
	}
}

func TestRun_TeardownErrorJoined(t *testing.T) {
	errRead := errors.New("read failed")
	errRestore := errors.New("restore failed")
	a, _ := newTestApp(&script{events: []event.Event{{Kind: event.Error, Err: errRead}}})
	a.Terminal.(*fakeTerminal).restoreErr = errRestore

	err := a.Run(context.Background())
	if !errors.Is(err, errRead) || !errors.Is(err, errRestore) {
		t.Errorf("Run() = %v, want both the cause and the teardown error", err)
	}
}

func TestRun_EnableRawFailure(t *testing.T) {
	errRaw := errors.New("not a tty")
	a, rec := newTestApp(events(event.Tick))
	a.Terminal.(*fakeTerminal).enableErr = errRaw

	if err := a.Run(context.Background()); !errors.Is(err, errRaw) {
		t.Fatalf("Run() = %v, want %v", err, errRaw)
	}
	if !reflect.DeepEqual(rec.calls, []string{"enable"}) {
		t.Errorf("calls = %q, want only enable", rec.calls)
	}
}

func TestRun_RenderFailure(t *testing.T) {
	errWrite := errors.New("broken pipe")
	a, rec := newTestApp(events(event.Tick))
	a.Terminal.(*fakeTerminal).renderErr = errWrite

	if err := a.Run(context.Background()); !errors.Is(err, errWrite) {
		t.Fatalf("Run() = %v, want %v", err, errWrite)
	}
	if last := rec.calls[len(rec.calls)-1]; last != "restore" {
		t.Errorf("last call = %q, want restore", last)
	}
}

func TestRun_PanicIsTrapped(t *testing.T) {
	a, rec := newTestApp(events(event.Tick, event.Tick))
	a.Display = &panicFormatter{after: 1}

	err := a.Run(context.Background())
	var panicErr *event.PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Run() = %v, want *event.PanicError", err)
	}
	if panicErr.Value != "formatter exploded" {
		t.Errorf("panic value = %v", panicErr.Value)
	}
	if len(panicErr.Stack) == 0 {
		t.Error("panic stack is empty")
	}
	if last := rec.calls[len(rec.calls)-1]; last != "restore" {
		t.Errorf("last call = %q, want restore", last)
	}
}

func TestRun_NotificationFailure(t *testing.T) {
	errNotify := errors.New("dbus unavailable")

	t.Run("logged and ignored by default", func(t *testing.T) {
		var logs bytes.Buffer
		a, _ := newTestApp(events(repeat(event.Tick, 3)...))
		a.Notifier.(*recordingNotifier).startedErr = errNotify
		a.Logger = slog.New(slog.NewTextHandler(&logs, nil))

		if err := a.Run(context.Background()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
		if s, _ := a.State(); s.Index != 2 {
			t.Errorf("session = %s, want the loop to keep going", s)
		}
		if !strings.Contains(logs.String(), "notification failed") {
			t.Errorf("failure not logged:\n%s", logs.String())
		}
	})

	t.Run("fatal in strict mode", func(t *testing.T) {
		a, rec := newTestApp(events(event.Tick))
		a.Notifier.(*recordingNotifier).startedErr = errNotify
		a.Strict = true

		err := a.Run(context.Background())
		if !errors.Is(err, errNotify) {
			t.Fatalf("Run() = %v, want %v", err, errNotify)
		}
		want := []string{"enable", "started #1 work", "restore"}
		if !reflect.DeepEqual(rec.calls, want) {
			t.Errorf("calls:\n got %q\nwant %q", rec.calls, want)
		}
	})

	t.Run("strict session end failure", func(t *testing.T) {
		a, _ := newTestApp(events(repeat(event.Tick, 3)...))
		a.Notifier.(*recordingNotifier).endedErr = errNotify
		a.Strict = true

		err := a.Run(context.Background())
		if !errors.Is(err, errNotify) || !strings.Contains(err.Error(), "#1 work") {
			t.Errorf("Run() = %v, want failure naming #1 work", err)
		}
	})
}

func TestRun_NilNotifier(t *testing.T) {
	a, _ := newTestApp(events(repeat(event.Tick, 3)...))
	a.Notifier = nil

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestRun_WithMux(t *testing.T) {
	src := &eventsSource{kinds: append(repeat(event.Tick, 3), event.Quit)}
	mux := event.NewMux(src)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mux.Start(ctx)
	defer mux.Close()

	a, _ := newTestApp(mux)
	if err := a.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := a.State(); s.Index != 2 || s.Kind != session.Break {
		t.Errorf("session = %s, want #2 break", s)
	}
}

type eventsSource struct{ kinds []event.Kind }

func (s *eventsSource) Name() string { return "script" }

func (s *eventsSource) Run(ctx context.Context, out chan<- event.Event) error {
	for _, k := range s.kinds {
		select {
		case <-ctx.Done():
			return nil
		case out <- event.Event{Kind: k, Source: s.Name()}:
		}
	}
	return nil
}
