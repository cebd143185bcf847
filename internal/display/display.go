// Package display renders the current session into the text block drawn at
// the terminal anchor.
package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/pomo/internal/session"
)

// Template placeholders.
const (
	PlaceholderKind   = "{session_kind}"
	PlaceholderNumber = "{session_number}"
	PlaceholderTimer  = "{timer}"
)

// Default templates.
const (
	DefaultActive = "{session_kind}\nSession {session_number}\n{timer}\n"
	DefaultPaused = "{session_kind}\nSession {session_number}\n{timer}\n(Paused)\n"
)

// TimerFormat selects how the remaining time is printed.
type TimerFormat string

const (
	TimerFull  TimerFormat = "full"  // HH:MM:SS.mmm
	TimerShort TimerFormat = "short" // MM:SS
)

// Labels are the display names of the session kinds.
type Labels struct {
	Work      string
	Break     string
	LongBreak string
}

// For returns the label of kind.
func (l Labels) For(kind session.Kind) string {
	switch kind {
	case session.Break:
		return l.Break
	case session.LongBreak:
		return l.LongBreak
	default:
		return l.Work
	}
}

// Options configures a Formatter. Empty templates fall back to the defaults.
type Options struct {
	Active      string
	Paused      string
	Labels      Labels
	TimerFormat TimerFormat
	AccentColor string      // hex color for the session label; empty = plain
	Keys        help.KeyMap // when set, a key help line is appended
}

// Formatter turns a session and the pause flag into display text.
type Formatter struct {
	active string
	paused string
	labels Labels
	timer  TimerFormat
	accent *lipgloss.Style
	keys   help.KeyMap
	help   help.Model
}

// New creates a Formatter from opts.
func New(opts Options) *Formatter {
	f := &Formatter{
		active: opts.Active,
		paused: opts.Paused,
		labels: opts.Labels,
		timer:  opts.TimerFormat,
		keys:   opts.Keys,
		help:   help.New(),
	}
	if f.active == "" {
		f.active = DefaultActive
	}
	if f.paused == "" {
		f.paused = DefaultPaused
	}
	if f.timer == "" {
		f.timer = TimerFull
	}
	if opts.AccentColor != "" {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(opts.AccentColor)).
			Bold(true)
		f.accent = &style
	}
	return f
}

// Format renders s. The paused template is used while paused. Newlines are
// expanded to "\n\r" for a terminal in raw mode.
func (f *Formatter) Format(s session.Session, paused bool) string {
	label := f.labels.For(s.Kind)
	if f.accent != nil {
		label = f.accent.Render(label)
	}

	tmpl := f.active
	if paused {
		tmpl = f.paused
	}
	text := strings.NewReplacer(
		PlaceholderKind, label,
		PlaceholderNumber, strconv.Itoa(s.Index),
		PlaceholderTimer, FormatTimer(s.Remaining(), f.timer),
	).Replace(tmpl)

	if f.keys != nil {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += f.help.ShortHelpView(f.keys.ShortHelp()) + "\n"
	}
	return strings.ReplaceAll(text, "\n", "\n\r")
}

// FormatTimer prints d as HH:MM:SS.mmm (TimerFull) or MM:SS (TimerShort).
// Negative durations print as zero.
func FormatTimer(d time.Duration, format TimerFormat) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	if format == TimerShort {
		return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		secs/3600, (secs/60)%60, secs%60, d.Milliseconds()%1000)
}
