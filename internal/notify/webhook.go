package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LISSConsulting/pomo/internal/session"
)

// DefaultWebhookTitle is the X-Title used for session-end messages.
const DefaultWebhookTitle = "pomo"

// Webhook posts plain-text HTTP notifications for session transitions. The
// primary use case is ntfy.sh, but any HTTP webhook works.
type Webhook struct {
	url       string
	templates Templates
	onStart   bool
	onEnd     bool
	client    *http.Client
}

// NewWebhook creates a Webhook posting to notifURL. Session starts use the
// per-kind template's title and body.
func NewWebhook(notifURL string, templates Templates, onStart, onEnd bool) *Webhook {
	return &Webhook{
		url:       notifURL,
		templates: templates,
		onStart:   onStart,
		onEnd:     onEnd,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SessionStarted implements Notifier. The POST is asynchronous.
func (w *Webhook) SessionStarted(s session.Session) error {
	if w.onStart {
		tmpl := w.templates.For(s.Kind)
		go w.post(tmpl.Title, tmpl.Body)
	}
	return nil
}

// SessionEnded implements Notifier. The POST is asynchronous.
func (w *Webhook) SessionEnded(s session.Session) error {
	if w.onEnd {
		go w.post(DefaultWebhookTitle, fmt.Sprintf("Session %d (%s) finished", s.Index, s.Kind))
	}
	return nil
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt the timer.
func (w *Webhook) post(title, message string) {
	req, err := http.NewRequest(http.MethodPost, w.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", title)
	resp, err := w.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
