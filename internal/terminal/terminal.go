// Package terminal owns the interactive screen: it reads keys for the event
// aggregator and draws frames for the control loop.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/atomicstack/treectl/internal/event"
	"github.com/atomicstack/treectl/internal/render"
	"github.com/gdamore/tcell/v2"
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("screen closed")

const menuHeight = 3

var newScreen = tcell.NewScreen

// Screen wraps a tcell screen. ReadKey and Render may run on different
// goroutines.
type Screen struct {
	screen   tcell.Screen
	styles   styles
	viewport render.Viewport

	closed    atomic.Bool
	closeOnce sync.Once
}

// Open initialises the terminal in raw mode on the alternate screen.
func Open() (*Screen, error) {
	s, err := newScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return New(s)
}

// New initialises s and takes ownership of it.
func New(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s, styles: defaultStyles()}, nil
}

// Close restores the terminal. PollEvent then returns nil, which ends ReadKey
// with io.EOF.
func (s *Screen) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.screen.Fini()
	})
	return nil
}

// ReadKey blocks for the next key press. Events that are not keys, and keys
// with no mapping, return event.ErrUnsupportedKey.
func (s *Screen) ReadKey() (event.Key, error) {
	ev := s.screen.PollEvent()
	switch ev := ev.(type) {
	case nil:
		return event.Key{}, io.EOF
	case *tcell.EventKey:
		return mapKey(ev)
	case *tcell.EventResize:
		s.screen.Sync()
		return event.Key{}, event.ErrUnsupportedKey
	default:
		return event.Key{}, event.ErrUnsupportedKey
	}
}

func mapKey(ev *tcell.EventKey) (event.Key, error) {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return event.Key{}, fmt.Errorf("%w: %s", event.ErrUnsupportedKey, ev.Name())
		}
		return event.Rune(ev.Rune()), nil
	case tcell.KeyUp:
		return event.Special(event.KeyUp), nil
	case tcell.KeyDown:
		return event.Special(event.KeyDown), nil
	case tcell.KeyLeft:
		return event.Special(event.KeyLeft), nil
	case tcell.KeyRight:
		return event.Special(event.KeyRight), nil
	case tcell.KeyEscape:
		return event.Special(event.KeyEscape), nil
	case tcell.KeyEnter:
		return event.Special(event.KeyEnter), nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return event.Special(event.KeyBackspace), nil
	case tcell.KeyCtrlC:
		return event.Special(event.KeyCtrlC), nil
	default:
		return event.Key{}, fmt.Errorf("%w: %s", event.ErrUnsupportedKey, ev.Name())
	}
}

// Render draws f: the command panel on top, the tree filling the rest.
func (s *Screen) Render(f render.Frame) error {
	if s.closed.Load() {
		return ErrClosed
	}
	width, height := s.screen.Size()
	s.screen.Clear()
	if width < 2 || height < menuHeight {
		s.screen.Show()
		return nil
	}

	s.drawBox(0, 0, width, menuHeight, render.MenuTitle, "")
	s.drawMenu(1, 1, width-2, f.Menu)

	treeHeight := height - menuHeight
	if treeHeight >= 2 {
		s.drawBox(0, menuHeight, width, treeHeight, f.Title, f.Status)
		s.drawRows(1, menuHeight+1, width-2, treeHeight-2, f)
	}
	s.screen.Show()
	return nil
}

func (s *Screen) drawMenu(x, y, width int, m render.Menu) {
	col := x
	for _, seg := range m.Segments() {
		style := s.styles.action
		switch seg.Kind {
		case render.SegmentMode:
			style = s.styles.mode
		case render.SegmentKey:
			style = s.styles.key
		}
		col = s.drawText(col, y, x+width-col, seg.Text, style)
		if col >= x+width {
			return
		}
	}
}

func (s *Screen) drawRows(x, y, width, height int, f render.Frame) {
	if height <= 0 {
		return
	}
	cursor := render.SelectedIndex(f.Rows)
	if cursor < 0 {
		cursor = 0
	}
	s.viewport.EnsureVisible(cursor, len(f.Rows), height)
	start, end := s.viewport.Window(len(f.Rows), height)
	for i := start; i < end; i++ {
		row := f.Rows[i]
		style := s.styles.forRow(row)
		line := y + i - start
		s.fill(x, line, width, style)
		s.drawText(x, line, width, row.Line(), style)
	}
}
