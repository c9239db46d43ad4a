package i3

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/treectl/internal/event"
	i3ipc "go.i3wm.org/i3/v4"
)

// receiver is the part of *i3ipc.EventReceiver the notifier uses.
type receiver interface {
	Next() bool
	Event() i3ipc.Event
	Err() error
	Close() error
}

// registerTimeout bounds how long Subscribe waits for the window manager to
// confirm the subscription.
var registerTimeout = 5 * time.Second

var errNotRegistered = errors.New("subscription ended before it was confirmed")

// Subscribe registers for window and workspace changes before returning.
// go-i3 only dials on the first Next, so the subscription also asks for tick
// events: i3 and sway answer a tick subscription with an immediate tick
// marked first, which confirms the registration.
func (c *Client) Subscribe() (event.Subscription, error) {
	recv := subscribe(i3ipc.WindowEventType, i3ipc.WorkspaceEventType, i3ipc.TickEventType)
	if err := register(recv); err != nil {
		_ = recv.Close()
		return nil, fmt.Errorf("subscribe to i3 events: %w", err)
	}
	return &subscription{recv: recv, pending: true}, nil
}

func register(recv receiver) error {
	done := make(chan error, 1)
	go func() {
		for recv.Next() {
			if tick, ok := recv.Event().(*i3ipc.TickEvent); ok && tick.First {
				done <- nil
				return
			}
		}
		err := recv.Err()
		if err == nil {
			err = errNotRegistered
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(registerTimeout):
		return fmt.Errorf("no confirmation within %s", registerTimeout)
	}
}

// subscription reports one change up front, for anything that happened
// between the caller's first tree query and the registration, then one per
// window or workspace event. Ticks are not changes.
type subscription struct {
	recv    receiver
	pending bool
}

func (s *subscription) Next() bool {
	if s.pending {
		s.pending = false
		return true
	}
	for s.recv.Next() {
		if _, ok := s.recv.Event().(*i3ipc.TickEvent); ok {
			continue
		}
		return true
	}
	return false
}

func (s *subscription) Err() error { return s.recv.Err() }

func (s *subscription) Close() error { return s.recv.Close() }
