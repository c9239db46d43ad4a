package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/treectl/internal/event"
	"github.com/atomicstack/treectl/internal/logging/events"
	"github.com/atomicstack/treectl/internal/render"
	"github.com/atomicstack/treectl/internal/selection"
	"github.com/atomicstack/treectl/internal/tree"
	"github.com/atomicstack/treectl/internal/ui/command"
)

// TreeProvider returns the current container tree.
type TreeProvider interface {
	Tree() (*tree.Node, error)
}

// FrameRenderer draws one frame.
type FrameRenderer interface {
	Render(render.Frame) error
}

// EventSource is the consumer side of the event aggregator.
type EventSource interface {
	Next() (event.Event, error)
	DisableExitKey()
	EnableExitKey()
}

// Options wires a Loop to its collaborators. Events may be nil for a loop
// that only renders.
type Options struct {
	Title    string
	Provider TreeProvider
	Sink     selection.CommandSink
	Events   EventSource
	Renderer FrameRenderer
	Strict   bool
}

type eventHandler func(event.Event) (bool, error)

// Loop owns the selection state for the lifetime of the dashboard.
type Loop struct {
	title     string
	provider  TreeProvider
	events    EventSource
	renderer  FrameRenderer
	bus       *command.Bus
	machine   *selection.Machine
	keys      keymap
	handlers  map[event.Kind]eventHandler
	status    string
	statusErr bool
}

// NewLoop takes the first tree snapshot. A failing query is returned as a
// setup error.
func NewLoop(opts Options) (*Loop, error) {
	if opts.Provider == nil {
		return nil, errors.New("ui: tree provider required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("ui: renderer required")
	}
	root, err := opts.Provider.Tree()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}
	snap := tree.NewSnapshot(root)
	events.Tree.Refresh(snap.Len())
	l := &Loop{
		title:    opts.Title,
		provider: opts.Provider,
		events:   opts.Events,
		renderer: opts.Renderer,
		bus:      command.New(opts.Sink, opts.Strict),
		machine:  selection.New(snap),
		keys:     defaultKeymap,
	}
	l.registerHandlers()
	return l, nil
}

func (l *Loop) registerHandlers() {
	l.handlers = map[event.Kind]eventHandler{
		event.KindKey:         l.handleKey,
		event.KindTick:        l.handleTick,
		event.KindTreeChanged: l.handleTreeChanged,
		event.KindNotifyLost:  l.handleNotifyLost,
	}
}

// Run renders and dispatches events until a quit key arrives or a fatal
// error occurs.
func (l *Loop) Run() error {
	if l.events == nil {
		return errors.New("ui: event source required")
	}
	for {
		if err := l.Render(); err != nil {
			return err
		}
		evt, err := l.events.Next()
		if err != nil {
			return fmt.Errorf("next event: %w", err)
		}
		done, err := l.handle(evt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Render draws the current state once.
func (l *Loop) Render() error {
	if err := l.renderer.Render(l.Frame()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Frame describes the current state.
func (l *Loop) Frame() render.Frame {
	snap := l.machine.Snapshot()
	f := render.Frame{
		Title:         l.title,
		Menu:          menuFor(l.machine.Mode()),
		Rows:          render.Flatten(snap.Root(), l.machine.Selected()),
		Status:        l.status,
		StatusIsError: l.statusErr,
	}
	if f.Status == "" && l.machine.Mode() == selection.ModeSearching {
		f.Status = "/" + l.machine.Query()
	}
	return f
}

// Mode exposes the state machine's mode.
func (l *Loop) Mode() selection.Mode { return l.machine.Mode() }

// Selected exposes the selected container.
func (l *Loop) Selected() tree.ContainerID { return l.machine.Selected() }

func (l *Loop) handle(evt event.Event) (bool, error) {
	handler, ok := l.handlers[evt.Kind]
	if !ok {
		return false, nil
	}
	return handler(evt)
}

func (l *Loop) handleKey(evt event.Event) (bool, error) {
	mode := l.machine.Mode()
	run, ok := l.keys.lookup(mode, evt.Key)
	events.Loop.Key(mode.String(), evt.Key.Label(), ok)
	if !ok {
		return evt.Final, nil
	}
	l.clearStatus()
	done, err := run(l)
	if err != nil {
		return evt.Final, l.survive(err)
	}
	// Nothing can be read after a final key.
	return done || evt.Final, nil
}

func (l *Loop) handleTick(event.Event) (bool, error) {
	return false, nil
}

func (l *Loop) handleTreeChanged(event.Event) (bool, error) {
	root, err := l.provider.Tree()
	if err != nil {
		events.Tree.Error(err)
		return false, l.survive(fmt.Errorf("refresh tree: %w", err))
	}
	snap := tree.NewSnapshot(root)
	l.machine.RefreshTree(snap)
	events.Tree.Refresh(snap.Len())
	return false, nil
}

// handleNotifyLost keeps the last tree on screen; it will no longer refresh.
func (l *Loop) handleNotifyLost(evt event.Event) (bool, error) {
	err := evt.Err
	if err == nil {
		err = event.ErrNotifyEnded
	}
	return false, l.survive(fmt.Errorf("tree notifications stopped: %w", err))
}

// survive applies the bus error policy and surfaces survivable failures on
// the status line.
func (l *Loop) survive(err error) error {
	if fatal := l.bus.Report(err); fatal != nil {
		return fatal
	}
	l.status = err.Error()
	l.statusErr = true
	return nil
}

// setExitKey flips the aggregator's exit-key gate. A loop without an event
// source has no gate.
func (l *Loop) setExitKey(enabled bool) {
	if l.events == nil {
		return
	}
	if enabled {
		l.events.EnableExitKey()
		return
	}
	l.events.DisableExitKey()
}

func (l *Loop) clearStatus() {
	l.status = ""
	l.statusErr = false
}
