// Package event merges keyboard input, a periodic tick, and window-manager
// change notifications into one ordered stream for a single consumer.
//
// Producers run on their own goroutines and only ever push into the shared
// queue; all state they would otherwise race on belongs to the consumer. The
// one exception is the exit-key gate, an atomic flag the consumer flips while
// the keyboard producer reads it.
package event

import (
	"errors"
	"fmt"
)

var (
	// ErrNotifyEnded is carried by KindNotifyLost when the subscription ended
	// without an error of its own.
	ErrNotifyEnded = errors.New("tree notifications ended")
	// ErrClosed is returned by Next once the queue is closed and drained.
	ErrClosed = errors.New("event queue closed")
	// ErrUnsupportedKey is returned by a KeyReader for input that does not map
	// to a Key. The keyboard producer skips it and keeps reading.
	ErrUnsupportedKey = errors.New("unsupported key")
)

// Kind tags an Event.
type Kind int

const (
	KindKey Kind = iota
	KindTick
	KindTreeChanged
	// KindNotifyLost reports that tree notifications stopped before Close.
	KindNotifyLost
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindTick:
		return "tick"
	case KindTreeChanged:
		return "tree-changed"
	case KindNotifyLost:
		return "notify-lost"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one item delivered by Next. Key and Final are only meaningful for
// KindKey, Err only for KindNotifyLost.
type Event struct {
	Kind Kind
	Key  Key
	Err  error

	// Final marks the last key the keyboard producer will deliver.
	Final bool
}

// KeyEvent wraps k in an Event.
func KeyEvent(k Key) Event {
	return Event{Kind: KindKey, Key: k}
}

// KeyCode names the keys the dashboard understands.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyCtrlC
)

// Key is comparable so it can be used directly as a map key in binding tables.
// Rune is zero for every code except KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// Rune returns the Key for a printable character.
func Rune(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// Special returns the Key for a non-printable code.
func Special(code KeyCode) Key {
	return Key{Code: code}
}

// Label renders k for the command summary.
func (k Key) Label() string {
	switch k.Code {
	case KeyRune:
		return string(k.Rune)
	case KeyUp:
		return "UP"
	case KeyDown:
		return "DOWN"
	case KeyLeft:
		return "LEFT"
	case KeyRight:
		return "RIGHT"
	case KeyEscape:
		return "ESC"
	case KeyEnter:
		return "ENTER"
	case KeyBackspace:
		return "BKSP"
	case KeyCtrlC:
		return "C-c"
	default:
		return "?"
	}
}

func (k Key) String() string {
	return k.Label()
}
