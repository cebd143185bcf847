// Package notify announces session transitions outside the terminal: desktop
// notifications and HTTP webhooks such as ntfy.sh.
package notify

import (
	"errors"

	"github.com/LISSConsulting/pomo/internal/session"
)

// Notifier is told about every session transition. The loop calls
// SessionEnded on the outgoing session, then SessionStarted on its successor.
type Notifier interface {
	SessionStarted(s session.Session) error
	SessionEnded(s session.Session) error
}

// Template is the content of one notification.
type Template struct {
	Icon  string
	Title string
	Body  string
}

// Templates holds one Template per session kind.
type Templates struct {
	Work      Template
	Break     Template
	LongBreak Template
}

// For returns the template for kind.
func (t Templates) For(kind session.Kind) Template {
	switch kind {
	case session.Break:
		return t.Break
	case session.LongBreak:
		return t.LongBreak
	default:
		return t.Work
	}
}

// Multi forwards each call to every notifier in order and joins the errors.
type Multi []Notifier

// SessionStarted implements Notifier.
func (m Multi) SessionStarted(s session.Session) error {
	var errs []error
	for _, n := range m {
		if err := n.SessionStarted(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SessionEnded implements Notifier.
func (m Multi) SessionEnded(s session.Session) error {
	var errs []error
	for _, n := range m {
		if err := n.SessionEnded(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) SessionStarted(session.Session) error { return nil }
func (Nop) SessionEnded(session.Session) error   { return nil }
