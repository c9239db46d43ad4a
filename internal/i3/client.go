// Package i3 adapts the i3/sway IPC socket to the dashboard's tree provider,
// command sink, and change notifier.
package i3

import (
	"fmt"
	"strings"

	"github.com/atomicstack/treectl/internal/tree"
	i3ipc "go.i3wm.org/i3/v4"
)

// Title heads the tree panel.
const Title = "I3 Tree"

var (
	getTree    = i3ipc.GetTree
	runCommand = i3ipc.RunCommand
	getVersion = i3ipc.GetVersion
	subscribe  = func(types ...i3ipc.EventType) receiver {
		return i3ipc.Subscribe(types...)
	}
)

// Client talks to the window manager over its IPC socket. go-i3 keeps one
// connection per process, so Client carries no state of its own.
type Client struct {
	version string
}

// New checks that the socket answers. A non-empty socketPath replaces the
// lookup go-i3 would otherwise do through the i3 binary.
func New(socketPath string) (*Client, error) {
	if path := strings.TrimSpace(socketPath); path != "" {
		i3ipc.SocketPathHook = func() (string, error) { return path, nil }
	}
	v, err := getVersion()
	if err != nil {
		return nil, fmt.Errorf("connect to i3: %w", err)
	}
	return &Client{version: v.HumanReadable}, nil
}

func (c *Client) Title() string { return Title }

// Version reports what the window manager said on connect.
func (c *Client) Version() string { return c.version }

// Tree fetches the full layout tree. Floating containers follow the tiling
// children of the same parent.
func (c *Client) Tree() (*tree.Node, error) {
	t, err := getTree()
	if err != nil {
		return nil, fmt.Errorf("get i3 tree: %w", err)
	}
	if t.Root == nil {
		return nil, fmt.Errorf("get i3 tree: empty reply")
	}
	return convert(t.Root), nil
}

func convert(n *i3ipc.Node) *tree.Node {
	out := &tree.Node{
		ID:      tree.ContainerID(n.ID),
		Name:    n.Name,
		Type:    string(n.Type),
		Layout:  string(n.Layout),
		Focused: n.Focused,
		Urgent:  n.Urgent,
	}
	if total := len(n.Nodes) + len(n.FloatingNodes); total > 0 {
		out.Nodes = make([]*tree.Node, 0, total)
	}
	for _, child := range n.Nodes {
		out.Nodes = append(out.Nodes, convert(child))
	}
	for _, child := range n.FloatingNodes {
		out.Nodes = append(out.Nodes, convert(child))
	}
	return out
}

// Command runs command with criteria matching the single container id.
func (c *Client) Command(id tree.ContainerID, command string) error {
	full := fmt.Sprintf("[con_id=%d] %s", id, command)
	if _, err := runCommand(full); err != nil {
		return fmt.Errorf("i3 command %q: %w", full, err)
	}
	return nil
}

// Close is a no-op; go-i3 closes request connections itself.
func (c *Client) Close() error { return nil }
