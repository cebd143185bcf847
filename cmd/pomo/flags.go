package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/pomo/internal/config"
)

// durationFlag and stringFlag bind a command-line flag to the config field it
// overrides. A flag only takes effect when it was set explicitly.
type durationFlag struct {
	name, short, usage string
	field              func(*config.Config) *config.Duration
}

type stringFlag struct {
	name, usage string
	field       func(*config.Config) *string
}

var durationFlags = []durationFlag{
	{"tick-interval", "t", "how often the display refreshes and time is credited", func(c *config.Config) *config.Duration { return &c.Timer.Tick }},
	{"work-duration", "w", "length of a work session", func(c *config.Config) *config.Duration { return &c.Timer.Work }},
	{"break-duration", "b", "length of a short break", func(c *config.Config) *config.Duration { return &c.Timer.Break }},
	{"long-break-duration", "l", "length of the long break after every fourth work session", func(c *config.Config) *config.Duration { return &c.Timer.LongBreak }},
}

var stringFlags = []stringFlag{
	{"work-notification-icon", "icon of the work notification", func(c *config.Config) *string { return &c.Notifications.Work.Icon }},
	{"work-notification-title", "title of the work notification", func(c *config.Config) *string { return &c.Notifications.Work.Title }},
	{"work-notification-body", "body of the work notification", func(c *config.Config) *string { return &c.Notifications.Work.Body }},
	{"break-notification-icon", "icon of the break notification", func(c *config.Config) *string { return &c.Notifications.Break.Icon }},
	{"break-notification-title", "title of the break notification", func(c *config.Config) *string { return &c.Notifications.Break.Title }},
	{"break-notification-body", "body of the break notification", func(c *config.Config) *string { return &c.Notifications.Break.Body }},
	{"long-break-notification-icon", "icon of the long break notification", func(c *config.Config) *string { return &c.Notifications.LongBreak.Icon }},
	{"long-break-notification-title", "title of the long break notification", func(c *config.Config) *string { return &c.Notifications.LongBreak.Title }},
	{"long-break-notification-body", "body of the long break notification", func(c *config.Config) *string { return &c.Notifications.LongBreak.Body }},
	{"active-display", "display template while running; placeholders {session_kind}, {session_number}, {timer}", func(c *config.Config) *string { return &c.Display.Active }},
	{"paused-display", "display template while paused", func(c *config.Config) *string { return &c.Display.Paused }},
	{"work-label", "label shown for work sessions", func(c *config.Config) *string { return &c.Labels.Work }},
	{"break-label", "label shown for short breaks", func(c *config.Config) *string { return &c.Labels.Break }},
	{"long-break-label", "label shown for long breaks", func(c *config.Config) *string { return &c.Labels.LongBreak }},
	{"timer-format", "timer format: full (HH:MM:SS.mmm) or short (MM:SS)", func(c *config.Config) *string { return &c.Display.TimerFormat }},
	{"webhook-url", "POST session notifications to this URL (e.g. an ntfy.sh topic)", func(c *config.Config) *string { return &c.Notifications.WebhookURL }},
	{"log-file", "write logs to this file", func(c *config.Config) *string { return &c.Log.File }},
}

func registerTimerFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	flags := cmd.Flags()
	for _, f := range durationFlags {
		flags.DurationP(f.name, f.short, f.field(&defaults).Std(), f.usage)
	}
	for _, f := range stringFlags {
		flags.String(f.name, *f.field(&defaults), f.usage)
	}
	flags.Bool("no-notify", false, "disable desktop notifications")
	flags.Bool("debug", false, "log at debug level")
}

// loadConfig reads the config file, applies explicitly set flags on top and
// validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	for _, f := range durationFlags {
		if !flags.Changed(f.name) {
			continue
		}
		d, err := flags.GetDuration(f.name)
		if err != nil {
			return err
		}
		*f.field(cfg) = config.Duration(d)
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		s, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.field(cfg) = s
	}
	if noNotify, _ := flags.GetBool("no-notify"); noNotify {
		cfg.Notifications.Desktop = false
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	return nil
}
