// Package command runs window-manager commands on behalf of the control loop
// and decides which failures the loop survives.
package command

import (
	"errors"
	"fmt"

	"github.com/atomicstack/treectl/internal/logging"
	"github.com/atomicstack/treectl/internal/logging/events"
	"github.com/atomicstack/treectl/internal/selection"
	"github.com/atomicstack/treectl/internal/tree"
)

// ErrNoSink is returned when a command is issued without a backend to run it.
var ErrNoSink = errors.New("no command sink")

// Bus forwards commands to a sink while emitting trace events. It satisfies
// selection.CommandSink so the state machine can issue commands through it.
type Bus struct {
	sink   selection.CommandSink
	strict bool
	seq    int64
}

// New wraps sink. With strict set, Report treats every failure as fatal.
func New(sink selection.CommandSink, strict bool) *Bus {
	return &Bus{sink: sink, strict: strict}
}

// Strict reports whether failures end the loop.
func (b *Bus) Strict() bool { return b.strict }

// Command runs command against the container id.
func (b *Bus) Command(id tree.ContainerID, command string) error {
	b.seq++
	seq := b.seq
	events.Command.Queue(seq, command)
	if b.sink == nil {
		events.Command.Error(seq, command, ErrNoSink)
		return fmt.Errorf("%s: %w", command, ErrNoSink)
	}
	if err := b.sink.Command(id, command); err != nil {
		events.Command.Error(seq, command, err)
		return fmt.Errorf("%s on %d: %w", command, id, err)
	}
	events.Command.Success(seq, command)
	return nil
}

// Report applies the error policy to a failed command or tree query. It
// returns err when the loop must stop and nil once a recoverable failure has
// been logged.
func (b *Bus) Report(err error) error {
	if err == nil {
		return nil
	}
	if b.strict {
		return err
	}
	logging.Error(err)
	events.Loop.Recovered(err)
	return nil
}
