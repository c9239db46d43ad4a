package i3

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/treectl/internal/tree"
	i3ipc "go.i3wm.org/i3/v4"
)

type stubReceiver struct {
	events  []i3ipc.Event
	current i3ipc.Event
	err     error
	block   chan struct{}
	closed  bool
}

func (r *stubReceiver) Next() bool {
	if r.block != nil {
		<-r.block
		return false
	}
	if len(r.events) == 0 {
		return false
	}
	r.current, r.events = r.events[0], r.events[1:]
	return true
}

func (r *stubReceiver) Event() i3ipc.Event { return r.current }
func (r *stubReceiver) Err() error         { return r.err }
func (r *stubReceiver) Close() error       { r.closed = true; return nil }

func stubVersion(t *testing.T, err error) {
	t.Helper()
	prev := getVersion
	t.Cleanup(func() { getVersion = prev })
	getVersion = func() (i3ipc.Version, error) {
		if err != nil {
			return i3ipc.Version{}, err
		}
		return i3ipc.Version{HumanReadable: "4.23"}, nil
	}
}

func TestNewReportsConnectionFailure(t *testing.T) {
	stubVersion(t, errors.New("dial unix: no such file"))
	if _, err := New(""); err == nil || !strings.Contains(err.Error(), "connect to i3") {
		t.Fatalf("expected wrapped connection error, got %v", err)
	}
}

func TestNewOverridesSocketPath(t *testing.T) {
	stubVersion(t, nil)
	prev := i3ipc.SocketPathHook
	t.Cleanup(func() { i3ipc.SocketPathHook = prev })

	c, err := New("/run/user/1000/sway-ipc.sock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path, err := i3ipc.SocketPathHook()
	if err != nil || path != "/run/user/1000/sway-ipc.sock" {
		t.Fatalf("expected socket override, got %q (%v)", path, err)
	}
	if c.Version() != "4.23" || c.Title() != Title {
		t.Fatalf("unexpected client metadata: %q %q", c.Version(), c.Title())
	}
}

func TestTreeConvertsNodes(t *testing.T) {
	prev := getTree
	t.Cleanup(func() { getTree = prev })
	getTree = func() (i3ipc.Tree, error) {
		return i3ipc.Tree{Root: &i3ipc.Node{
			ID: 1, Name: "root", Type: i3ipc.Root, Layout: i3ipc.SplitH,
			Nodes: []*i3ipc.Node{
				{ID: 2, Name: "1", Type: i3ipc.WorkspaceNode, Layout: i3ipc.Tabbed,
					Nodes: []*i3ipc.Node{
						{ID: 3, Name: "term", Type: i3ipc.Con, Focused: true},
					},
					FloatingNodes: []*i3ipc.Node{
						{ID: 4, Type: i3ipc.FloatingCon, Urgent: true},
					},
				},
			},
		}}, nil
	}

	root, err := (&Client{}).Tree()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := tree.CollectIDs(root)
	want := []tree.ContainerID{1, 2, 3, 4}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
	ws := root.Nodes[0]
	if ws.Type != "workspace" || ws.Layout != "tabbed" || ws.Name != "1" {
		t.Fatalf("unexpected workspace conversion: %+v", ws)
	}
	if !ws.Nodes[0].Focused || !ws.Nodes[1].Urgent {
		t.Fatalf("expected focus and urgency to carry over")
	}
}

func TestTreeErrors(t *testing.T) {
	prev := getTree
	t.Cleanup(func() { getTree = prev })

	getTree = func() (i3ipc.Tree, error) { return i3ipc.Tree{}, errors.New("broken pipe") }
	if _, err := (&Client{}).Tree(); err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected query error, got %v", err)
	}
	getTree = func() (i3ipc.Tree, error) { return i3ipc.Tree{}, nil }
	if _, err := (&Client{}).Tree(); err == nil {
		t.Fatalf("expected error for an empty reply")
	}
}

func TestCommandUsesConIDCriteria(t *testing.T) {
	prev := runCommand
	t.Cleanup(func() { runCommand = prev })

	var got []string
	runCommand = func(cmd string) ([]i3ipc.CommandResult, error) {
		got = append(got, cmd)
		if strings.HasSuffix(cmd, "move up") {
			return nil, errors.New("no container to move")
		}
		return []i3ipc.CommandResult{{Success: true}}, nil
	}

	c := &Client{}
	if err := c.Command(42, "split toggle"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Command(7, "move up"); err == nil {
		t.Fatalf("expected command error")
	}
	want := []string{"[con_id=42] split toggle", "[con_id=7] move up"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q, got %q", want[i], got[i])
		}
	}
}

func stubSubscribe(t *testing.T, recv *stubReceiver) *[]i3ipc.EventType {
	t.Helper()
	prev := subscribe
	t.Cleanup(func() { subscribe = prev })
	types := new([]i3ipc.EventType)
	subscribe = func(ts ...i3ipc.EventType) receiver {
		*types = ts
		return recv
	}
	return types
}

func TestSubscribeFailsWhenRegistrationFails(t *testing.T) {
	recv := &stubReceiver{err: errors.New("dial unix /run/i3/ipc: connection refused")}
	stubSubscribe(t, recv)

	sub, err := (&Client{}).Subscribe()
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected registration error, got %v (%v)", err, sub)
	}
	if !recv.closed {
		t.Fatalf("expected failed receiver to be closed")
	}
}

func TestSubscribeFailsWhenStreamEndsUnconfirmed(t *testing.T) {
	stubSubscribe(t, &stubReceiver{events: []i3ipc.Event{&i3ipc.WindowEvent{Change: "focus"}}})
	if _, err := (&Client{}).Subscribe(); !errors.Is(err, errNotRegistered) {
		t.Fatalf("expected unconfirmed subscription error, got %v", err)
	}
}

func TestSubscribeTimesOutWithoutConfirmation(t *testing.T) {
	prev := registerTimeout
	t.Cleanup(func() { registerTimeout = prev })
	registerTimeout = 10 * time.Millisecond

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	stubSubscribe(t, &stubReceiver{block: block})
	if _, err := (&Client{}).Subscribe(); err == nil || !strings.Contains(err.Error(), "no confirmation") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestSubscribeReportsChangesAfterRegistration(t *testing.T) {
	recv := &stubReceiver{events: []i3ipc.Event{
		&i3ipc.TickEvent{First: true},
		&i3ipc.TickEvent{Payload: "ping"},
		&i3ipc.WindowEvent{Change: "new"},
		&i3ipc.WorkspaceEvent{Change: "focus"},
	}}
	types := stubSubscribe(t, recv)

	sub, err := (&Client{}).Subscribe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []i3ipc.EventType{i3ipc.WindowEventType, i3ipc.WorkspaceEventType, i3ipc.TickEventType}
	if len(*types) != len(want) {
		t.Fatalf("expected %v, got %v", want, *types)
	}
	for i := range want {
		if (*types)[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, *types)
		}
	}

	changes := 0
	for sub.Next() {
		changes++
	}
	// one for the registration window, then the window and workspace events
	if changes != 3 {
		t.Fatalf("expected 3 changes, got %d", changes)
	}
	if err := sub.Close(); err != nil || !recv.closed {
		t.Fatalf("expected close to reach the receiver, got %v", err)
	}
}
