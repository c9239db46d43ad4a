package tmux

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/treectl/internal/tree"
)

type fakeClient struct {
	mu sync.Mutex

	paneLines []string
	panesErr  error

	commandCalls [][]string
	commandErr   error

	swapWindowsCalls [][]string
	swapWindowsErr   error

	closed int
}

func (f *fakeClient) ListPanesFormat(target, filter, format string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panesErr != nil {
		return nil, f.panesErr
	}
	return append([]string(nil), f.paneLines...), nil
}

func (f *fakeClient) Command(parts ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commandCalls = append(f.commandCalls, parts)
	return "", f.commandErr
}

func (f *fakeClient) SwapWindows(first, second string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swapWindowsCalls = append(f.swapWindowsCalls, []string{first, second})
	return f.swapWindowsErr
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeClient) setLines(lines []string) {
	f.mu.Lock()
	f.paneLines = lines
	f.mu.Unlock()
}

func withFakeClient(t *testing.T, f *fakeClient) {
	t.Helper()
	prev := newTmux
	newTmux = func(string) (tmuxClient, error) { return f, nil }
	t.Cleanup(func() { newTmux = prev })
}

func line(fields ...string) string {
	return strings.Join(fields, "\t")
}

// Two sessions; "work" is attached with two windows, the second split into
// two panes side by side with the bell raised.
func sampleLines() []string {
	return []string{
		line("$0", "work", "1", "@1", "0", "editor", "0", "0", "b25d,80x24,0,0,1", "%1", "0", "vim", "1"),
		line("$0", "work", "1", "@2", "1", "shell", "1", "1", "c2a1,80x24,0,0{40x24,0,0,2,39x24,41,0,3}", "%2", "0", "zsh", "0"),
		line("$0", "work", "1", "@2", "1", "shell", "1", "1", "c2a1,80x24,0,0{40x24,0,0,2,39x24,41,0,3}", "%3", "1", "htop", "1"),
		line("$1", "logs", "0", "@3", "0", "tail", "1", "0", "a1b2,80x24,0,0[80x12,0,0,4,80x11,0,13,5]", "%4", "0", "tail", "1"),
	}
}

func newFakeBacked(t *testing.T, f *fakeClient) *Client {
	t.Helper()
	withFakeClient(t, f)
	c, err := New("/tmp/tmux-1000/default", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestTreeBuildsHierarchy(t *testing.T) {
	c := newFakeBacked(t, &fakeClient{paneLines: sampleLines()})
	root, err := c.Tree()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Type != "server" || root.Name != "default" {
		t.Fatalf("unexpected root %+v", root)
	}
	if len(root.Nodes) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(root.Nodes))
	}
	work := root.Nodes[0]
	if work.Name != "work" || len(work.Nodes) != 2 {
		t.Fatalf("unexpected session %+v", work)
	}
	shell := work.Nodes[1]
	if shell.Name != "1:shell" || shell.Layout != "splith" || !shell.Urgent {
		t.Fatalf("unexpected window %+v", shell)
	}
	if work.Nodes[0].Layout != "single" {
		t.Fatalf("expected single-pane layout, got %q", work.Nodes[0].Layout)
	}
	if root.Nodes[1].Nodes[0].Layout != "splitv" {
		t.Fatalf("expected stacked layout, got %q", root.Nodes[1].Nodes[0].Layout)
	}
	if len(shell.Nodes) != 2 || shell.Nodes[1].Name != "1: htop" {
		t.Fatalf("unexpected panes %+v", shell.Nodes)
	}
	if !shell.Nodes[1].Focused || shell.Nodes[0].Focused {
		t.Fatalf("expected only the active pane of the active window to be focused")
	}
	if work.Nodes[0].Nodes[0].Focused {
		t.Fatalf("expected panes of inactive windows to be unfocused")
	}
	if root.Nodes[1].Nodes[0].Nodes[0].Focused {
		t.Fatalf("expected panes of detached sessions to be unfocused")
	}
	if got := root.Count(); got != 1+2+3+4 {
		t.Fatalf("expected 10 nodes, got %d", got)
	}
	snap := tree.NewSnapshot(root)
	if snap.Len() != root.Count() {
		t.Fatalf("expected unique ids across kinds, got %d of %d", snap.Len(), root.Count())
	}
}

func TestTreeErrors(t *testing.T) {
	c := newFakeBacked(t, &fakeClient{panesErr: errors.New("no server running")})
	if _, err := c.Tree(); err == nil || !strings.Contains(err.Error(), "no server running") {
		t.Fatalf("expected listing error, got %v", err)
	}

	c = newFakeBacked(t, &fakeClient{paneLines: []string{"garbage"}})
	if _, err := c.Tree(); err == nil {
		t.Fatalf("expected parse error")
	}

	c = newFakeBacked(t, &fakeClient{paneLines: []string{line("0", "s", "1", "@1", "0", "w", "1", "0", "x", "%1", "0", "sh", "1")}})
	if _, err := c.Tree(); err == nil || !strings.Contains(err.Error(), "malformed session id") {
		t.Fatalf("expected malformed id error, got %v", err)
	}
}

func TestIDRoundTrip(t *testing.T) {
	id, err := parseID(kindPane, "%42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k, tgt := target(id)
	if k != kindPane || tgt != "%42" {
		t.Fatalf("expected pane %%42, got %s %s", k, tgt)
	}
	if encode(kindSession, 1) == encode(kindWindow, 1) {
		t.Fatalf("expected kinds to separate ids")
	}
	if _, err := parseID(kindWindow, "@"); err == nil {
		t.Fatalf("expected error for a bare sigil")
	}
}

func paneID(t *testing.T, raw string) tree.ContainerID {
	t.Helper()
	id, err := parseID(kindPane, raw)
	if err != nil {
		t.Fatalf("bad fixture id %q: %v", raw, err)
	}
	return id
}

func windowID(t *testing.T, raw string) tree.ContainerID {
	t.Helper()
	id, err := parseID(kindWindow, raw)
	if err != nil {
		t.Fatalf("bad fixture id %q: %v", raw, err)
	}
	return id
}

func TestPaneCommands(t *testing.T) {
	f := &fakeClient{paneLines: sampleLines()}
	c := newFakeBacked(t, f)
	if _, err := c.Tree(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pane := paneID(t, "%3")
	for _, cmd := range []string{"move up", "move right", "split toggle"} {
		if err := c.Command(pane, cmd); err != nil {
			t.Fatalf("%s: unexpected error: %v", cmd, err)
		}
	}
	want := []string{
		"swap-pane -d -U -t %3",
		"swap-pane -d -D -t %3",
		"next-layout -t %3",
	}
	if len(f.commandCalls) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), f.commandCalls)
	}
	for i, call := range f.commandCalls {
		if got := strings.Join(call, " "); got != want[i] {
			t.Fatalf("expected %q, got %q", want[i], got)
		}
	}
}

func TestWindowMovesSwapWithNeighbour(t *testing.T) {
	f := &fakeClient{paneLines: sampleLines()}
	c := newFakeBacked(t, f)
	if _, err := c.Tree(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Command(windowID(t, "@1"), "move right"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Command(windowID(t, "@1"), "move left"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Command(windowID(t, "@3"), "move down"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.swapWindowsCalls) != 1 {
		t.Fatalf("expected edge moves to be no-ops, got %v", f.swapWindowsCalls)
	}
	if got := f.swapWindowsCalls[0]; got[0] != "@1" || got[1] != "@2" {
		t.Fatalf("expected swap of @1 and @2, got %v", got)
	}
}

func TestUnsupportedCommands(t *testing.T) {
	c := newFakeBacked(t, &fakeClient{paneLines: sampleLines()})
	session, _ := parseID(kindSession, "$0")
	cases := []struct {
		id  tree.ContainerID
		cmd string
	}{
		{session, "move up"},
		{session, "split toggle"},
		{encode(kindServer, 0), "move down"},
		{paneID(t, "%1"), "split vertical"},
		{paneID(t, "%1"), "move sideways"},
		{paneID(t, "%1"), "kill"},
	}
	for _, tc := range cases {
		if err := c.Command(tc.id, tc.cmd); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%q: expected ErrUnsupported, got %v", tc.cmd, err)
		}
	}
}

func TestCommandErrorsPropagate(t *testing.T) {
	boom := errors.New("can't find pane")
	c := newFakeBacked(t, &fakeClient{commandErr: boom})
	if err := c.Command(paneID(t, "%9"), "move up"); !errors.Is(err, boom) {
		t.Fatalf("expected command error, got %v", err)
	}
}

func TestSubscribeWatchesListing(t *testing.T) {
	f := &fakeClient{paneLines: sampleLines()}
	c := newFakeBacked(t, f)
	sub, err := c.Subscribe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	f.setLines(sampleLines()[:3])
	got := make(chan bool, 1)
	go func() { got <- sub.Next() }()
	select {
	case ok := <-got:
		if !ok {
			t.Fatalf("expected change notification, got end of stream: %v", sub.Err())
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for change notification")
	}
}

func TestSubscribeFailsWithoutServer(t *testing.T) {
	f := &fakeClient{panesErr: errors.New("no server running")}
	c := newFakeBacked(t, f)
	if _, err := c.Subscribe(); err == nil {
		t.Fatalf("expected subscribe error")
	}
	if f.closed != 1 {
		t.Fatalf("expected the watch connection to be closed, got %d closes", f.closed)
	}
}

func TestNewReportsConnectError(t *testing.T) {
	prev := newTmux
	t.Cleanup(func() { newTmux = prev })
	newTmux = func(string) (tmuxClient, error) { return nil, errors.New("dial failed") }
	if _, err := New("", time.Second); err == nil || !strings.Contains(err.Error(), "connect to tmux") {
		t.Fatalf("expected wrapped connect error, got %v", err)
	}
}

func TestResolveSocketPath(t *testing.T) {
	if got, _ := ResolveSocketPath("/explicit"); got != "/explicit" {
		t.Fatalf("expected explicit path, got %q", got)
	}
	t.Setenv("TMUX", "/tmp/tmux-501/work,1234,0")
	if got, _ := ResolveSocketPath(""); got != "/tmp/tmux-501/work" {
		t.Fatalf("expected path from $TMUX, got %q", got)
	}
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_TMPDIR", "/var/run")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "/var/run/tmux-") || !strings.HasSuffix(got, "/default") {
		t.Fatalf("expected default socket under TMUX_TMPDIR, got %q", got)
	}
}
