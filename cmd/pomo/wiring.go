package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/LISSConsulting/pomo/internal/app"
	"github.com/LISSConsulting/pomo/internal/config"
	"github.com/LISSConsulting/pomo/internal/control"
	"github.com/LISSConsulting/pomo/internal/display"
	"github.com/LISSConsulting/pomo/internal/event"
	"github.com/LISSConsulting/pomo/internal/notify"
	"github.com/LISSConsulting/pomo/internal/session"
	"github.com/LISSConsulting/pomo/internal/terminal"
)

// executeTimer wires the collaborators from cfg and runs the timer on the
// process's terminal until it quits.
func executeTimer(ctx context.Context, cfg *config.Config, pidfile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	// Signal handlers are installed by newSources; the pidfile must come after.
	keys := event.DefaultKeyMap()
	mux := event.NewMux(newSources(cfg, keys, os.Stdin)...)
	mux.Start(ctx)
	defer mux.Close()

	if pf, err := control.Create(pidfile, os.Getpid()); err != nil {
		logger.Warn("pause and stop commands unavailable", "error", err)
	} else {
		defer func() {
			if err := pf.Release(); err != nil {
				logger.Warn("pidfile not removed", "path", pidfile, "error", err)
			}
		}()
	}

	a := &app.App{
		Events:    mux,
		Terminal:  terminal.Stdio(),
		Display:   newFormatter(cfg, keys),
		Notifier:  newNotifier(cfg.Notifications),
		Durations: durations(cfg.Timer),
		Tick:      cfg.Timer.Tick.Std(),
		Strict:    cfg.Notifications.Strict,
		Logger:    logger,
	}
	logger.Info("starting", "version", version, "work", cfg.Timer.Work, "break", cfg.Timer.Break, "long_break", cfg.Timer.LongBreak)
	return a.Run(ctx)
}

// newLogger returns a logger writing to cfg.File. The terminal belongs to the
// display, so without a log file everything is discarded.
func newLogger(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(handler), f.Close, nil
}

func newSources(cfg *config.Config, keys event.KeyMap, in io.Reader) []event.Source {
	return []event.Source{
		event.NewTickSource(cfg.Timer.Tick.Std()),
		&event.InputSource{Reader: in, Keys: keys},
		event.NewSignalSource(),
	}
}

func newFormatter(cfg *config.Config, keys event.KeyMap) *display.Formatter {
	opts := display.Options{
		Active: cfg.Display.Active,
		Paused: cfg.Display.Paused,
		Labels: display.Labels{
			Work:      cfg.Labels.Work,
			Break:     cfg.Labels.Break,
			LongBreak: cfg.Labels.LongBreak,
		},
		TimerFormat: display.TimerFormat(cfg.Display.TimerFormat),
		AccentColor: cfg.Display.AccentColor,
	}
	if cfg.Display.ShowHelp {
		opts.Keys = keys
	}
	return display.New(opts)
}

// newNotifier fans out to the desktop and webhook notifiers that are enabled.
func newNotifier(cfg config.NotificationsConfig) notify.Notifier {
	templates := notify.Templates{
		Work:      notify.Template(cfg.Work),
		Break:     notify.Template(cfg.Break),
		LongBreak: notify.Template(cfg.LongBreak),
	}

	var notifiers notify.Multi
	if cfg.Desktop {
		notifiers = append(notifiers, notify.NewDesktop(templates))
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.WebhookURL, templates, cfg.OnStart, cfg.OnEnd))
	}
	if len(notifiers) == 0 {
		return notify.Nop{}
	}
	return notifiers
}

func durations(cfg config.TimerConfig) session.Durations {
	return session.Durations{
		Work:      cfg.Work.Std(),
		Break:     cfg.Break.Std(),
		LongBreak: cfg.LongBreak.Std(),
	}
}
