// Package selection tracks which container is selected and what the user is
// doing with it. The Machine never sees raw keys; callers translate input into
// its operations.
package selection

import (
	"fmt"

	"github.com/atomicstack/treectl/internal/logging/events"
	"github.com/atomicstack/treectl/internal/tree"
)

// Mode is the interaction mode.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeMoving
	ModeSearching
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "Select"
	case ModeMoving:
		return "Move"
	case ModeSearching:
		return "Search"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Direction is a move target understood by the window manager.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// CommandSink runs a window-manager command scoped to one container.
type CommandSink interface {
	Command(id tree.ContainerID, command string) error
}

// Machine is owned by a single goroutine.
type Machine struct {
	snap     *tree.Snapshot
	selected tree.ContainerID
	mode     Mode

	// origin is the container being moved while in ModeMoving.
	origin tree.ContainerID

	query   []rune
	restore tree.ContainerID
}

// New starts in ModeBrowsing with the root selected.
func New(snap *tree.Snapshot) *Machine {
	m := &Machine{snap: snap}
	if id, ok := snap.RootID(); ok {
		m.selected = id
	}
	return m
}

func (m *Machine) Selected() tree.ContainerID { return m.selected }

func (m *Machine) Mode() Mode { return m.mode }

// Origin returns the container that entered ModeMoving. Only meaningful in
// that mode.
func (m *Machine) Origin() tree.ContainerID { return m.origin }

func (m *Machine) Snapshot() *tree.Snapshot { return m.snap }

// Query returns the search text typed so far.
func (m *Machine) Query() string { return string(m.query) }

// SelectNext moves to the id after the first occurrence of the current one.
// It reports whether the selection changed.
func (m *Machine) SelectNext() bool {
	ids := m.snap.IDs()
	for i, id := range ids {
		if id != m.selected {
			continue
		}
		if i+1 >= len(ids) {
			return false
		}
		m.setSelected(ids[i+1])
		return true
	}
	return false
}

// SelectPrevious moves to the id before the last occurrence of the current one.
func (m *Machine) SelectPrevious() bool {
	ids := m.snap.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] != m.selected {
			continue
		}
		if i == 0 {
			return false
		}
		m.setSelected(ids[i-1])
		return true
	}
	return false
}

// ToggleMoveMode switches between browsing and moving the selected container.
// It does nothing while searching.
func (m *Machine) ToggleMoveMode() {
	switch m.mode {
	case ModeBrowsing:
		m.origin = m.selected
		m.setMode(ModeMoving)
	case ModeMoving:
		m.origin = 0
		m.setMode(ModeBrowsing)
	}
}

// MoveContainer asks the window manager to move the selected container. The
// selection keeps following the container's id.
func (m *Machine) MoveContainer(sink CommandSink, dir Direction) error {
	return m.command(sink, "move "+string(dir))
}

// ToggleSplit flips the split orientation of the selected container.
func (m *Machine) ToggleSplit(sink CommandSink) error {
	return m.command(sink, "split toggle")
}

func (m *Machine) command(sink CommandSink, cmd string) error {
	if sink == nil {
		return fmt.Errorf("%s: no command sink", cmd)
	}
	return sink.Command(m.selected, cmd)
}

// RefreshTree swaps in a new snapshot. A selection that vanished falls back to
// its nearest surviving ancestor, or the new root; moving mode ends with it.
func (m *Machine) RefreshTree(snap *tree.Snapshot) {
	prev := m.snap
	m.snap = snap
	if snap.Contains(m.selected) {
		if m.mode == ModeSearching && !snap.Contains(m.restore) {
			m.restore = m.selected
		}
		return
	}

	lost := m.selected
	fallback, _ := snap.RootID()
	for _, ancestor := range prev.Ancestors(lost) {
		if snap.Contains(ancestor) {
			fallback = ancestor
			break
		}
	}
	m.selected = fallback
	events.Selection.Fallback(int64(lost), int64(fallback))

	switch m.mode {
	case ModeMoving:
		m.origin = 0
		m.setMode(ModeBrowsing)
	case ModeSearching:
		if !snap.Contains(m.restore) {
			m.restore = fallback
		}
	}
}

func (m *Machine) setSelected(id tree.ContainerID) {
	if id == m.selected {
		return
	}
	events.Selection.Move(int64(m.selected), int64(id))
	m.selected = id
}

func (m *Machine) setMode(mode Mode) {
	if mode == m.mode {
		return
	}
	events.Selection.Mode(m.mode.String(), mode.String())
	m.mode = mode
}
