package event

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap binds keyboard keys to events. It also satisfies help.KeyMap so the
// display can render the bindings.
type KeyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the standard bindings: p pauses or resumes, q and
// ctrl+c quit.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Lookup returns the event kind bound to msg. Unbound keys report false and
// are dropped by the input source. An unbound alt chord falls back to its
// plain key: Esc typed just before a key arrives in the same read and decodes
// as alt+key.
func (k KeyMap) Lookup(msg tea.KeyMsg) (Kind, bool) {
	if kind, ok := k.lookup(msg); ok {
		return kind, true
	}
	if msg.Alt {
		msg.Alt = false
		return k.lookup(msg)
	}
	return 0, false
}

func (k KeyMap) lookup(msg tea.KeyMsg) (Kind, bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return Quit, true
	case key.Matches(msg, k.Pause):
		return TogglePause, true
	}
	return 0, false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
