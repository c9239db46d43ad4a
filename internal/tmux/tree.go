package tmux

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/treectl/internal/tree"
)

const paneFormat = "#{session_id}\t#{session_name}\t#{session_attached}\t" +
	"#{window_id}\t#{window_index}\t#{window_name}\t#{window_active}\t#{window_bell_flag}\t#{window_layout}\t" +
	"#{pane_id}\t#{pane_index}\t#{pane_current_command}\t#{pane_active}"

const paneFields = 13

type paneLine struct {
	sessionID    string
	sessionName  string
	attached     bool
	windowID     string
	windowIndex  int
	windowName   string
	windowActive bool
	bell         bool
	layout       string
	paneID       string
	paneIndex    int
	command      string
	paneActive   bool
}

func parsePaneLine(line string) (paneLine, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < paneFields {
		return paneLine{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	windowIndex, _ := strconv.Atoi(parts[4])
	paneIndex, _ := strconv.Atoi(parts[10])
	attached, _ := strconv.Atoi(parts[2])
	return paneLine{
		sessionID:    parts[0],
		sessionName:  parts[1],
		attached:     attached > 0,
		windowID:     parts[3],
		windowIndex:  windowIndex,
		windowName:   parts[5],
		windowActive: parts[6] == "1",
		bell:         parts[7] == "1",
		layout:       parts[8],
		paneID:       parts[9],
		paneIndex:    paneIndex,
		command:      parts[11],
		paneActive:   parts[12] == "1",
	}, true
}

// layoutKind reads the outermost split of a window_layout string: "{" lays
// cells side by side, "[" stacks them. A single pane has no split.
func layoutKind(layout string) string {
	for _, r := range layout {
		switch r {
		case '{':
			return "splith"
		case '[':
			return "splitv"
		}
	}
	return "single"
}

// Tree lists every pane on the server and folds the rows into
// server, session, window, pane levels in listing order.
func (c *Client) Tree() (*tree.Node, error) {
	lines, err := c.client.ListPanesFormat("", "", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("list tmux panes: %w", err)
	}
	root, windows, err := buildTree(c.socketPath, lines)
	if err != nil {
		return nil, err
	}
	c.windows = windows
	return root, nil
}

func buildTree(socketPath string, lines []string) (*tree.Node, map[int64]windowSlot, error) {
	name := "tmux"
	if socketPath != "" {
		name = filepath.Base(socketPath)
	}
	root := &tree.Node{ID: encode(kindServer, 0), Name: name, Type: "server", Layout: "sessions"}

	sessions := make(map[tree.ContainerID]*tree.Node)
	windows := make(map[tree.ContainerID]*tree.Node)
	windowOrder := make(map[tree.ContainerID][]string)

	for _, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line, ok := parsePaneLine(raw)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected list-panes output %q", raw)
		}
		sessionID, err := parseID(kindSession, line.sessionID)
		if err != nil {
			return nil, nil, err
		}
		windowID, err := parseID(kindWindow, line.windowID)
		if err != nil {
			return nil, nil, err
		}
		paneID, err := parseID(kindPane, line.paneID)
		if err != nil {
			return nil, nil, err
		}

		session := sessions[sessionID]
		if session == nil {
			session = &tree.Node{ID: sessionID, Name: line.sessionName, Type: "session", Layout: "tabbed"}
			sessions[sessionID] = session
			root.Nodes = append(root.Nodes, session)
		}
		window := windows[windowID]
		if window == nil {
			window = &tree.Node{
				ID:     windowID,
				Name:   fmt.Sprintf("%d:%s", line.windowIndex, line.windowName),
				Type:   "window",
				Layout: layoutKind(line.layout),
				Urgent: line.bell,
			}
			windows[windowID] = window
			session.Nodes = append(session.Nodes, window)
			windowOrder[sessionID] = append(windowOrder[sessionID], line.windowID)
		}
		window.Nodes = append(window.Nodes, &tree.Node{
			ID:      paneID,
			Name:    fmt.Sprintf("%d: %s", line.paneIndex, line.command),
			Type:    "pane",
			Layout:  "none",
			Focused: line.attached && line.windowActive && line.paneActive,
		})
	}

	slots := make(map[int64]windowSlot, len(windows))
	for _, order := range windowOrder {
		for i, raw := range order {
			id, _ := parseID(kindWindow, raw)
			_, n := decode(id)
			var slot windowSlot
			if i > 0 {
				slot.prev = order[i-1]
			}
			if i+1 < len(order) {
				slot.next = order[i+1]
			}
			slots[n] = slot
		}
	}
	return root, slots, nil
}
