package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
)

// InputSource reads raw terminal input and emits the events bound in Keys.
// The terminal must already be in raw mode so that keystrokes arrive
// unbuffered and ctrl+c arrives as a byte rather than a signal.
type InputSource struct {
	Reader io.Reader
	Keys   KeyMap
}

// NewInputSource creates an InputSource with the default key bindings.
func NewInputSource(r io.Reader) *InputSource {
	return &InputSource{Reader: r, Keys: DefaultKeyMap()}
}

// Name implements Source.
func (s *InputSource) Name() string { return "input" }

// Run implements Source. End of input finishes the source quietly; any other
// read error is returned so it reaches the consumer.
func (s *InputSource) Run(ctx context.Context, out chan<- Event) error {
	r := s.Reader
	if cr, err := cancelreader.NewReader(s.Reader); err == nil {
		defer cr.Close()
		stop := context.AfterFunc(ctx, func() { cr.Cancel() })
		defer stop()
		r = cr
	}

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, msg := range DecodeKeys(buf[:n]) {
			kind, ok := s.Keys.Lookup(msg)
			if !ok {
				continue
			}
			if !send(ctx, out, Event{Kind: kind, Source: s.Name(), At: time.Now()}) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, cancelreader.ErrCanceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// DecodeKeys splits a chunk of raw terminal input into key messages.
// Control bytes map to their ctrl key, ESC followed by a printable rune is an
// alt chord, and CSI/SS3 sequences (arrows, function keys) are skipped.
func DecodeKeys(b []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for len(b) > 0 {
		c := b[0]
		switch {
		case c == 0x1b:
			n, msg, ok := decodeEscape(b)
			if ok {
				keys = append(keys, msg)
			}
			b = b[n:]
		case c < 0x20 || c == 0x7f:
			keys = append(keys, tea.KeyMsg{Type: tea.KeyType(c)})
			b = b[1:]
		default:
			r, size := utf8.DecodeRune(b)
			if r != utf8.RuneError || size > 1 {
				keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
			}
			b = b[size:]
		}
	}
	return keys
}

// decodeEscape consumes an escape sequence at the start of b and returns the
// number of bytes used.
func decodeEscape(b []byte) (int, tea.KeyMsg, bool) {
	if len(b) == 1 {
		return 1, tea.KeyMsg{Type: tea.KeyEscape}, true
	}
	switch b[1] {
	case '[', 'O':
		// Parameters and intermediates up to the final byte 0x40-0x7e.
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				return i + 1, tea.KeyMsg{}, false
			}
		}
		return len(b), tea.KeyMsg{}, false
	case 0x1b:
		return 1, tea.KeyMsg{Type: tea.KeyEscape}, true
	}
	r, size := utf8.DecodeRune(b[1:])
	if r == utf8.RuneError && size <= 1 {
		return 2, tea.KeyMsg{}, false
	}
	if r < 0x20 || r == 0x7f {
		return 1 + size, tea.KeyMsg{Type: tea.KeyType(r), Alt: true}, true
	}
	return 1 + size, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}, true
}
