// Package tmux presents a tmux server as a container tree: the server holds
// sessions, sessions hold windows, windows hold panes.
package tmux

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// Title heads the tree panel.
const Title = "tmux Tree"

// ErrUnsupported is returned for commands tmux has no equivalent for on the
// targeted container.
var ErrUnsupported = errors.New("unsupported on this container")

type tmuxClient interface {
	ListPanesFormat(target, filter, format string) ([]string, error)
	Command(parts ...string) (string, error)
	SwapWindows(first, second string) error
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// Client owns one control-mode connection for queries and commands. The
// change watcher opens a second one so polling never interleaves with them.
type Client struct {
	socketPath string
	poll       time.Duration
	client     tmuxClient

	// windows is rebuilt by every Tree call and used to find swap
	// neighbours.
	windows map[int64]windowSlot
}

type windowSlot struct {
	prev, next string
}

// New connects to the server at socketPath. poll is the change-watch
// interval.
func New(socketPath string, poll time.Duration) (*Client, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to tmux: %w", err)
	}
	return &Client{socketPath: socketPath, poll: poll, client: client}, nil
}

func (c *Client) Title() string { return Title }

// Close drops the connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ResolveSocketPath picks the socket to talk to: the explicit value, then the
// server this process runs inside, then tmux's default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}
