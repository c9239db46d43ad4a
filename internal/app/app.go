package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atomicstack/treectl/internal/event"
	"github.com/atomicstack/treectl/internal/i3"
	"github.com/atomicstack/treectl/internal/logging"
	"github.com/atomicstack/treectl/internal/logging/events"
	"github.com/atomicstack/treectl/internal/render"
	"github.com/atomicstack/treectl/internal/selection"
	"github.com/atomicstack/treectl/internal/terminal"
	"github.com/atomicstack/treectl/internal/tmux"
	"github.com/atomicstack/treectl/internal/ui"
	"golang.org/x/term"
)

const (
	BackendI3   = "i3"
	BackendTmux = "tmux"
)

const defaultPrintWidth = 80

// Config describes user-provided application options.
type Config struct {
	Backend      string
	SocketPath   string
	TickRate     time.Duration
	PollInterval time.Duration
	Strict       bool
	Print        bool
	Width        int
}

// Backend is a window manager the dashboard can display and drive.
type Backend interface {
	ui.TreeProvider
	selection.CommandSink
	event.Notifier
	Title() string
	Close() error
}

// Screen is the interactive terminal.
type Screen interface {
	event.KeyReader
	ui.FrameRenderer
	Close() error
}

var (
	openBackend = defaultBackend
	openScreen  = func() (Screen, error) { return terminal.Open() }
	stdout      = io.Writer(os.Stdout)
)

func defaultBackend(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case BackendTmux:
		socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
		if err != nil {
			return nil, fmt.Errorf("resolve socket path: %w", err)
		}
		return tmux.New(socketPath, cfg.PollInterval)
	case BackendI3, "":
		return i3.New(cfg.SocketPath)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Run connects to the window manager and either prints the tree once or runs
// the dashboard until the user quits.
func Run(cfg Config) (err error) {
	defer func() {
		reason := "quit"
		if err != nil {
			reason = err.Error()
		}
		events.App.Stop(reason)
	}()

	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if cfg.Print {
		return printTree(b, cfg.Width)
	}
	return runDashboard(cfg, b)
}

func printTree(b Backend, width int) error {
	if width <= 0 {
		width = terminalWidth()
	}
	loop, err := ui.NewLoop(ui.Options{
		Title:    b.Title(),
		Provider: b,
		Renderer: render.NewText(stdout, width),
	})
	if err != nil {
		return err
	}
	return loop.Render()
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultPrintWidth
}

func runDashboard(cfg Config, b Backend) error {
	screen, err := openScreen()
	if err != nil {
		return err
	}
	logging.HoldFallback()
	defer logging.ReleaseFallback()
	agg, err := event.New(event.Config{ExitKey: event.Rune('q'), TickRate: cfg.TickRate}, screen, b)
	if err != nil {
		_ = screen.Close()
		return err
	}
	// The keyboard producer only returns once the screen is finalized.
	defer func() {
		agg.Close()
		_ = screen.Close()
		agg.Wait()
	}()

	loop, err := ui.NewLoop(ui.Options{
		Title:    b.Title(),
		Provider: b,
		Sink:     b,
		Events:   agg,
		Renderer: screen,
		Strict:   cfg.Strict,
	})
	if err != nil {
		return err
	}
	return loop.Run()
}
