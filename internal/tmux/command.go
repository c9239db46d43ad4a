package tmux

import (
	"fmt"
	"strings"

	"github.com/atomicstack/treectl/internal/tree"
)

// Command maps the dashboard's "move <dir>" and "split toggle" onto tmux:
// panes swap with their neighbour, windows swap index with the adjacent
// window, and split toggle cycles the window layout.
func (c *Client) Command(id tree.ContainerID, command string) error {
	fields := strings.Fields(command)
	if len(fields) != 2 {
		return fmt.Errorf("%w: %q", ErrUnsupported, command)
	}
	switch fields[0] {
	case "move":
		return c.move(id, fields[1])
	case "split":
		if fields[1] != "toggle" {
			return fmt.Errorf("%w: %q", ErrUnsupported, command)
		}
		return c.nextLayout(id)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, command)
	}
}

func (c *Client) move(id tree.ContainerID, dir string) error {
	backward := false
	switch dir {
	case "up", "left":
		backward = true
	case "down", "right":
	default:
		return fmt.Errorf("%w: move %s", ErrUnsupported, dir)
	}

	k, tgt := target(id)
	switch k {
	case kindPane:
		flag := "-D"
		if backward {
			flag = "-U"
		}
		if _, err := c.client.Command("swap-pane", "-d", flag, "-t", tgt); err != nil {
			return fmt.Errorf("swap-pane %s %s: %w", flag, tgt, err)
		}
		return nil
	case kindWindow:
		_, n := decode(id)
		slot := c.windows[n]
		other := slot.next
		if backward {
			other = slot.prev
		}
		if other == "" {
			return nil
		}
		if err := c.client.SwapWindows(tgt, other); err != nil {
			return fmt.Errorf("swap-window %s %s: %w", tgt, other, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: move on %s", ErrUnsupported, k)
	}
}

func (c *Client) nextLayout(id tree.ContainerID) error {
	k, tgt := target(id)
	if k != kindPane && k != kindWindow {
		return fmt.Errorf("%w: split toggle on %s", ErrUnsupported, k)
	}
	if _, err := c.client.Command("next-layout", "-t", tgt); err != nil {
		return fmt.Errorf("next-layout %s: %w", tgt, err)
	}
	return nil
}
