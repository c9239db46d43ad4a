// Package backend turns a pollable window-manager listing into a stream of
// change notifications for backends that have no push events of their own.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is used when NewWatcher is given a non-positive interval.
const DefaultInterval = 500 * time.Millisecond

// minInterval bounds how often the source is queried, however short the
// configured interval.
const minInterval = 100 * time.Millisecond

// maxFailures is how many consecutive fetch errors end the watch.
const maxFailures = 3

// Source produces a fingerprint of the watched state. Any change in the
// fingerprint counts as a change notification.
type Source interface {
	Fingerprint(ctx context.Context) (string, error)
	Close() error
}

// Watcher polls a Source at a fixed interval. It satisfies the event
// package's Subscription: Next blocks until the fingerprint changes.
type Watcher struct {
	source   Source
	interval time.Duration
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	events chan struct{}
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewWatcher starts polling source. baseline is the fingerprint the caller
// already acted on; only later differences are reported. The watcher closes
// source when it stops.
func NewWatcher(source Source, interval time.Duration, baseline string) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:   source,
		interval: interval,
		throttle: newThrottle(minInterval),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan struct{}, 1),
	}

	w.wg.Add(1)
	go w.poll(baseline)

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Next blocks until a change is seen. It returns false once the watcher has
// stopped; Err then reports why.
func (w *Watcher) Next() bool {
	_, ok := <-w.events
	return ok
}

// Err returns the error that stopped polling, or nil after Close.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close cancels the watcher. The poller exits after its current fetch
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Close() error {
	w.cancel()
	return nil
}

// Wait blocks until the poller has exited and Next reports false.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll(last string) {
	defer w.wg.Done()
	defer func() {
		if err := w.source.Close(); err != nil {
			w.fail(fmt.Errorf("close watch source: %w", err))
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		}
		if err := w.throttle.wait(w.ctx); err != nil {
			return
		}
		current, err := w.source.Fingerprint(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || w.ctx.Err() != nil {
				return
			}
			failures++
			if failures >= maxFailures {
				w.fail(fmt.Errorf("poll failed %d times: %w", failures, err))
				return
			}
			continue
		}
		failures = 0
		if current == last {
			continue
		}
		last = current
		// A pending notification already covers this change.
		select {
		case w.events <- struct{}{}:
		default:
		}
	}
}

func (w *Watcher) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
