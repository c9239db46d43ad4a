package ui

import (
	"github.com/atomicstack/treectl/internal/event"
	"github.com/atomicstack/treectl/internal/render"
)

// Harness drives a Loop programmatically, without an event source.
type Harness struct {
	loop *Loop
	done bool
}

// NewHarness wraps loop.
func NewHarness(loop *Loop) *Harness {
	return &Harness{loop: loop}
}

// Send dispatches evt as Run would. Events after a quit are ignored.
func (h *Harness) Send(evt event.Event) error {
	if h.loop == nil || h.done {
		return nil
	}
	done, err := h.loop.handle(evt)
	h.done = done
	return err
}

// Keys sends each key in turn, stopping at the first error.
func (h *Harness) Keys(keys ...event.Key) error {
	for _, k := range keys {
		if err := h.Send(event.KeyEvent(k)); err != nil {
			return err
		}
	}
	return nil
}

// Done reports whether a quit key has been handled.
func (h *Harness) Done() bool { return h.done }

// Frame returns what the next render would draw.
func (h *Harness) Frame() render.Frame {
	return h.loop.Frame()
}

// Loop exposes the underlying loop.
func (h *Harness) Loop() *Loop {
	return h.loop
}
