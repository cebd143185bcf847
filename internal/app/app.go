// Package app runs the timer: it consumes the merged event stream one event
// at a time, drives the live session through its cycle, renders it and tears
// the terminal down on every way out.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/LISSConsulting/pomo/internal/event"
	"github.com/LISSConsulting/pomo/internal/notify"
	"github.com/LISSConsulting/pomo/internal/session"
)

// Events is the merged event stream. *event.Mux satisfies this interface.
type Events interface {
	Next(ctx context.Context) (event.Event, bool)
}

// Terminal brackets the display. *terminal.Terminal satisfies this interface.
type Terminal interface {
	EnableRaw() error
	Render(text string) error
	Restore() error
}

// Formatter turns the live session into display text.
// *display.Formatter satisfies this interface.
type Formatter interface {
	Format(s session.Session, paused bool) string
}

// App owns the live session and the paused flag. Only Run mutates them.
type App struct {
	Events    Events
	Terminal  Terminal
	Display   Formatter
	Notifier  notify.Notifier // defaults to notify.Nop
	Durations session.Durations
	Tick      time.Duration // elapsed time credited per tick
	Strict    bool          // notification failures end the run
	Logger    *slog.Logger  // defaults to a discarding logger

	session session.Session
	paused  bool
}

// Run starts session 1 and processes events until Quit, an Error event, the
// end of the stream or ctx cancellation. The terminal is restored before Run
// returns on every path, including a panic, which is returned as an
// *event.PanicError. Teardown failures are joined onto the returned error.
func (a *App) Run(ctx context.Context) (err error) {
	log := a.logger()
	if a.Notifier == nil {
		a.Notifier = notify.Nop{}
	}
	a.session = session.New(1, a.Durations)
	a.paused = false

	if err := a.Terminal.EnableRaw(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic", "value", r)
			err = &event.PanicError{Value: r, Stack: debug.Stack()}
		}
		if restoreErr := a.Terminal.Restore(); restoreErr != nil {
			log.Warn("teardown failed", "error", restoreErr)
			err = errors.Join(err, fmt.Errorf("app: teardown: %w", restoreErr))
		}
	}()

	log.Info("session started", "session", a.session.String(), "duration", a.session.Duration)
	if err := a.notify(a.Notifier.SessionStarted, a.session); err != nil {
		return err
	}
	if err := a.render(); err != nil {
		return err
	}

	for {
		ev, ok := a.Events.Next(ctx)
		if !ok {
			log.Info("stopping", "reason", "end of event stream")
			return nil
		}

		done, handleErr := a.handle(ev)
		if handleErr != nil {
			log.Error("stopping", "reason", "error", "source", ev.Source, "error", handleErr)
			return handleErr
		}
		if done {
			log.Info("stopping", "reason", "quit", "source", ev.Source)
			return nil
		}
		if err := a.render(); err != nil {
			return err
		}
	}
}

// State returns the live session and whether the timer is paused. It is not
// safe to call while Run is in progress on another goroutine.
func (a *App) State() (session.Session, bool) {
	return a.session, a.paused
}

// handle applies one event. It reports whether the loop should stop.
func (a *App) handle(ev event.Event) (bool, error) {
	switch ev.Kind {
	case event.Tick:
		if a.paused {
			return false, nil
		}
		return false, a.tick()
	case event.TogglePause:
		a.paused = !a.paused
		a.logger().Info("pause toggled", "paused", a.paused, "source", ev.Source, "session", a.session.String())
		return false, nil
	case event.Quit:
		return true, nil
	case event.Error:
		cause := ev.Err
		if cause == nil {
			cause = fmt.Errorf("%s source failed", ev.Source)
		}
		return true, fmt.Errorf("app: %w", cause)
	}
	return false, nil
}

// tick credits one interval to the live session and, once it has run past
// its duration, replaces it with its successor.
func (a *App) tick() error {
	a.session.Tick(a.Tick)
	if !a.session.Finished() {
		return nil
	}

	ended := a.session
	a.session = ended.Next(a.Durations)
	a.logger().Info("session ended", "session", ended.String(), "elapsed", ended.Elapsed)

	if err := a.notify(a.Notifier.SessionEnded, ended); err != nil {
		return err
	}
	a.logger().Info("session started", "session", a.session.String(), "duration", a.session.Duration)
	return a.notify(a.Notifier.SessionStarted, a.session)
}

func (a *App) notify(fn func(session.Session) error, s session.Session) error {
	err := fn(s)
	if err == nil {
		return nil
	}
	if a.Strict {
		return fmt.Errorf("app: notify %s: %w", s, err)
	}
	a.logger().Warn("notification failed", "session", s.String(), "error", err)
	return nil
}

func (a *App) render() error {
	if err := a.Terminal.Render(a.Display.Format(a.session, a.paused)); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		a.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}
