package ui

import (
	"github.com/atomicstack/treectl/internal/event"
	"github.com/atomicstack/treectl/internal/render"
	"github.com/atomicstack/treectl/internal/selection"
)

// action runs a bound key. It reports whether the loop should stop.
type action func(l *Loop) (bool, error)

type binding struct {
	key event.Key
	// label is shown in the command summary; empty hides the binding.
	label string
	run   action
}

var (
	keyQuit  = event.Rune('q')
	keyCtrlC = event.Special(event.KeyCtrlC)
)

func quit(*Loop) (bool, error) { return true, nil }

func selectNext(l *Loop) (bool, error) {
	l.machine.SelectNext()
	return false, nil
}

func selectPrevious(l *Loop) (bool, error) {
	l.machine.SelectPrevious()
	return false, nil
}

func toggleMove(l *Loop) (bool, error) {
	l.machine.ToggleMoveMode()
	return false, nil
}

func toggleSplit(l *Loop) (bool, error) {
	return false, l.machine.ToggleSplit(l.bus)
}

func move(dir selection.Direction) action {
	return func(l *Loop) (bool, error) {
		return false, l.machine.MoveContainer(l.bus, dir)
	}
}

func startSearch(l *Loop) (bool, error) {
	if l.machine.StartSearch() {
		l.setExitKey(false)
	}
	return false, nil
}

func acceptSearch(l *Loop) (bool, error) {
	l.machine.AcceptSearch()
	l.setExitKey(true)
	return false, nil
}

func cancelSearch(l *Loop) (bool, error) {
	l.machine.CancelSearch()
	l.setExitKey(true)
	return false, nil
}

func deleteQuery(l *Loop) (bool, error) {
	l.machine.DeleteQuery()
	return false, nil
}

// bindings lists each mode's keys in the order the command summary shows
// them.
var bindings = map[selection.Mode][]binding{
	selection.ModeBrowsing: {
		{event.Special(event.KeyDown), "next", selectNext},
		{event.Special(event.KeyUp), "previous", selectPrevious},
		{event.Rune('m'), "move mode", toggleMove},
		{event.Rune('s'), "toggle split", toggleSplit},
		{event.Rune('/'), "search", startSearch},
		{keyQuit, "quit", quit},
		{keyCtrlC, "", quit},
	},
	selection.ModeMoving: {
		{event.Special(event.KeyEscape), "exit mode", toggleMove},
		{event.Special(event.KeyUp), "move up", move(selection.Up)},
		{event.Special(event.KeyDown), "move down", move(selection.Down)},
		{event.Special(event.KeyLeft), "move left", move(selection.Left)},
		{event.Special(event.KeyRight), "move right", move(selection.Right)},
		{event.Rune('s'), "toggle split", toggleSplit},
		{keyQuit, "quit", quit},
		{keyCtrlC, "", quit},
	},
	selection.ModeSearching: {
		{event.Special(event.KeyEnter), "accept", acceptSearch},
		{event.Special(event.KeyEscape), "cancel", cancelSearch},
		{event.Special(event.KeyBackspace), "delete", deleteQuery},
		{keyCtrlC, "quit", quit},
	},
}

type keymap map[selection.Mode]map[event.Key]action

func buildKeymap(table map[selection.Mode][]binding) keymap {
	km := make(keymap, len(table))
	for mode, list := range table {
		keys := make(map[event.Key]action, len(list))
		for _, b := range list {
			keys[b.key] = b.run
		}
		km[mode] = keys
	}
	return km
}

var defaultKeymap = buildKeymap(bindings)

// lookup finds the action bound to k in mode. Printable runes that are not
// bound while searching extend the query.
func (km keymap) lookup(mode selection.Mode, k event.Key) (action, bool) {
	if run, ok := km[mode][k]; ok {
		return run, true
	}
	if mode == selection.ModeSearching && k.Code == event.KeyRune && k.Rune >= ' ' {
		r := k.Rune
		return func(l *Loop) (bool, error) {
			l.machine.AppendQuery(r)
			return false, nil
		}, true
	}
	return nil, false
}

// menuFor summarises the visible bindings of mode.
func menuFor(mode selection.Mode) render.Menu {
	list := bindings[mode]
	actions := make([]render.Action, 0, len(list))
	for _, b := range list {
		if b.label == "" {
			continue
		}
		actions = append(actions, render.Action{Key: b.key.Label(), Label: b.label})
	}
	return render.Menu{Mode: mode.String(), Actions: actions}
}
