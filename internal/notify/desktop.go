package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/LISSConsulting/pomo/internal/session"
)

// Desktop shows an OS notification when a session starts. The end of a
// session is not announced separately; the next start covers it.
type Desktop struct {
	templates Templates
	show      func(title, body, icon string) error
}

// NewDesktop creates a Desktop notifier using the per-kind templates.
func NewDesktop(templates Templates) *Desktop {
	return &Desktop{
		templates: templates,
		show: func(title, body, icon string) error {
			return beeep.Notify(title, body, icon)
		},
	}
}

// SessionStarted implements Notifier.
func (d *Desktop) SessionStarted(s session.Session) error {
	tmpl := d.templates.For(s.Kind)
	if err := d.show(tmpl.Title, tmpl.Body, tmpl.Icon); err != nil {
		return fmt.Errorf("notify: desktop: %w", err)
	}
	return nil
}

// SessionEnded implements Notifier.
func (d *Desktop) SessionEnded(session.Session) error { return nil }
