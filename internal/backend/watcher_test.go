package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type scriptedSource struct {
	mu      sync.Mutex
	values  []string
	errs    []error
	calls   int
	closed  bool
	closeCh chan struct{}
}

func newScriptedSource(values ...string) *scriptedSource {
	return &scriptedSource{values: values, closeCh: make(chan struct{})}
}

func (s *scriptedSource) Fingerprint(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if len(s.values) == 0 {
		return "", nil
	}
	if i >= len(s.values) {
		return s.values[len(s.values)-1], nil
	}
	return s.values[i], nil
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.closeCh)
	}
	return nil
}

func nextWithin(t *testing.T, w *Watcher, d time.Duration) bool {
	t.Helper()
	got := make(chan bool, 1)
	go func() { got <- w.Next() }()
	select {
	case ok := <-got:
		return ok
	case <-time.After(d):
		t.Fatalf("timed out waiting for watcher")
		return false
	}
}

func TestWatcherNotifiesOnChange(t *testing.T) {
	src := newScriptedSource("a", "a", "b", "b")
	w := NewWatcher(src, 10*time.Millisecond, "a")
	defer w.Close()

	if !nextWithin(t, w, 2*time.Second) {
		t.Fatalf("expected a change notification, got end of stream: %v", w.Err())
	}
	w.Close()
	w.Wait()
	if w.Next() {
		t.Fatalf("expected Next to report false after Close")
	}
	if w.Err() != nil {
		t.Fatalf("expected no error after Close, got %v", w.Err())
	}
	select {
	case <-src.closeCh:
	default:
		t.Fatalf("expected watcher to close its source")
	}
}

func TestWatcherIgnoresUnchangedListing(t *testing.T) {
	src := newScriptedSource("same")
	w := NewWatcher(src, 10*time.Millisecond, "same")
	got := make(chan bool, 1)
	go func() { got <- w.Next() }()
	select {
	case <-got:
		t.Fatalf("expected no notification for an unchanged listing")
	case <-time.After(300 * time.Millisecond):
	}
	w.Close()
	if ok := <-got; ok {
		t.Fatalf("expected pending Next to end after Close")
	}
}

func TestWatcherStopsAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("server exited")
	src := newScriptedSource()
	src.errs = []error{boom, boom, boom}
	w := NewWatcher(src, 5*time.Millisecond, "")
	defer w.Close()

	if nextWithin(t, w, 3*time.Second) {
		t.Fatalf("expected the stream to end")
	}
	if !errors.Is(w.Err(), boom) {
		t.Fatalf("expected poll error, got %v", w.Err())
	}
}

func TestWatcherRecoversFromTransientFailure(t *testing.T) {
	src := newScriptedSource("", "", "changed")
	src.errs = []error{errors.New("timeout"), nil, nil}
	w := NewWatcher(src, 5*time.Millisecond, "")
	defer w.Close()

	if !nextWithin(t, w, 3*time.Second) {
		t.Fatalf("expected a notification after recovery, got %v", w.Err())
	}
}

func TestThrottleHonoursContext(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if err := th.wait(ctx); err != nil {
		t.Fatalf("expected first slot immediately, got %v", err)
	}
	cancel()
	if err := th.wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	var nilThrottle *throttle
	if err := nilThrottle.wait(context.Background()); err != nil {
		t.Fatalf("expected nil throttle to pass, got %v", err)
	}
}
