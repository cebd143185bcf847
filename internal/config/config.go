// Package config parses pomo.toml timer configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load.
const FileName = "pomo.toml"

// Timer formats accepted by display.timer_format.
const (
	TimerFormatFull  = "full"
	TimerFormatShort = "short"
)

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level pomo.toml configuration.
type Config struct {
	Timer         TimerConfig         `toml:"timer"`
	Labels        LabelsConfig        `toml:"labels"`
	Display       DisplayConfig       `toml:"display"`
	Notifications NotificationsConfig `toml:"notifications"`
	Log           LogConfig           `toml:"log"`
}

// TimerConfig holds the tick interval and the length of each session kind.
type TimerConfig struct {
	Tick      Duration `toml:"tick"`
	Work      Duration `toml:"work"`
	Break     Duration `toml:"break"`
	LongBreak Duration `toml:"long_break"`
}

// LabelsConfig holds the display name of each session kind.
type LabelsConfig struct {
	Work      string `toml:"work"`
	Break     string `toml:"break"`
	LongBreak string `toml:"long_break"`
}

// DisplayConfig controls the in-place terminal display.
type DisplayConfig struct {
	Active      string `toml:"active"`
	Paused      string `toml:"paused"`
	TimerFormat string `toml:"timer_format"` // "full" (HH:MM:SS.mmm) or "short" (MM:SS)
	AccentColor string `toml:"accent_color"`
	ShowHelp    bool   `toml:"show_help"`
}

// NotificationsConfig controls desktop and webhook notifications.
type NotificationsConfig struct {
	Desktop    bool                 `toml:"desktop"`
	Strict     bool                 `toml:"strict"` // desktop failures stop the timer
	WebhookURL string               `toml:"webhook_url"`
	OnStart    bool                 `toml:"on_start"`
	OnEnd      bool                 `toml:"on_end"`
	Work       NotificationTemplate `toml:"work"`
	Break      NotificationTemplate `toml:"break"`
	LongBreak  NotificationTemplate `toml:"long_break"`
}

// NotificationTemplate is the content shown when a session of a kind starts.
type NotificationTemplate struct {
	Icon  string `toml:"icon"`
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

// LogConfig controls the diagnostic log. The display owns the terminal, so
// logs only go to a file.
type LogConfig struct {
	File  string `toml:"file"` // empty = discard
	Level string `toml:"level"`
}

// SlogLevel returns the configured level, or info if it does not parse.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Defaults returns a Config with the stock Pomodoro settings.
func Defaults() Config {
	return Config{
		Timer: TimerConfig{
			Tick:      Duration(time.Second),
			Work:      Duration(25 * time.Minute),
			Break:     Duration(5 * time.Minute),
			LongBreak: Duration(10 * time.Minute),
		},
		Labels: LabelsConfig{
			Work:      "Work",
			Break:     "Break",
			LongBreak: "Long break",
		},
		Display: DisplayConfig{
			Active:      "{session_kind}\nSession {session_number}\n{timer}\n",
			Paused:      "{session_kind}\nSession {session_number}\n{timer}\n(Paused)\n",
			TimerFormat: TimerFormatFull,
		},
		Notifications: NotificationsConfig{
			Desktop: true,
			OnStart: true,
			Work: NotificationTemplate{
				Icon:  "clock",
				Title: "Working time",
				Body:  "Well, the moment has passed, back to work!",
			},
			Break: NotificationTemplate{
				Icon:  "clock",
				Title: "Break time",
				Body:  "Drink some water!",
			},
			LongBreak: NotificationTemplate{
				Icon:  "clock",
				Title: "Long break time",
				Body:  "Go for a walk or eat a snack!",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the timer cannot run with.
// It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	for _, d := range []struct {
		key string
		val Duration
	}{
		{"timer.tick", c.Timer.Tick},
		{"timer.work", c.Timer.Work},
		{"timer.break", c.Timer.Break},
		{"timer.long_break", c.Timer.LongBreak},
	} {
		if d.val <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0", d.key))
		}
	}

	if c.Display.TimerFormat != TimerFormatFull && c.Display.TimerFormat != TimerFormatShort {
		errs = append(errs, fmt.Errorf("display.timer_format must be %q or %q", TimerFormatFull, TimerFormatShort))
	}
	if c.Display.AccentColor != "" && !hexColorRe.MatchString(c.Display.AccentColor) {
		errs = append(errs, fmt.Errorf("display.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if c.Notifications.WebhookURL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.WebhookURL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.webhook_url must be a valid http or https URL"))
		}
	}

	if c.Log.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error"))
		}
	}

	return errors.Join(errs...)
}

// Load reads the configuration at path over Defaults. If path is empty it
// looks for pomo.toml in the working directory, then in the user config
// directory; if neither exists the defaults are returned. Unknown keys
// (likely typos) are an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		if found == "" {
			return &cfg, nil
		}
		path = found
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	return &cfg, nil
}

// UserPath returns the per-user configuration file location.
func UserPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: user config dir: %w", err)
	}
	return filepath.Join(dir, "pomo", FileName), nil
}

// findConfig returns the first existing candidate, or "" if there is none.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}
	candidates := []string{filepath.Join(dir, FileName)}
	if user, userErr := UserPath(); userErr == nil {
		candidates = append(candidates, user)
	}

	for _, candidate := range candidates {
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// InitFile writes a default pomo.toml template to the given directory,
// creating the directory if needed.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("config: create %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(template), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

const template = `# pomo.toml: Pomodoro timer configuration
# Looked up in the working directory, then in the user config directory.
# Command-line flags override every value here.

[timer]
tick = "1s"
work = "25m"
break = "5m"
long_break = "10m"

[labels]
work = "Work"
break = "Break"
long_break = "Long break"

[display]
# Placeholders: {session_kind}, {session_number}, {timer}
active = "{session_kind}\nSession {session_number}\n{timer}\n"
paused = "{session_kind}\nSession {session_number}\n{timer}\n(Paused)\n"
timer_format = "full"  # full = HH:MM:SS.mmm, short = MM:SS
accent_color = ""      # hex color for the session label, e.g. "#7D56F4"
show_help = false      # print the key bindings under the timer

[notifications]
desktop = true     # OS desktop notification when a session starts
strict = false     # stop the timer if a desktop notification fails
webhook_url = ""   # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_start = true    # post to the webhook when a session starts
on_end = false     # post to the webhook when a session ends

[notifications.work]
icon = "clock"
title = "Working time"
body = "Well, the moment has passed, back to work!"

[notifications.break]
icon = "clock"
title = "Break time"
body = "Drink some water!"

[notifications.long_break]
icon = "clock"
title = "Long break time"
body = "Go for a walk or eat a snack!"

[log]
file = ""       # log file path (empty = no log)
level = "info"  # debug, info, warn, error
`
