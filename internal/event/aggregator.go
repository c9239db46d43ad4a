package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/treectl/internal/logging"
	"github.com/atomicstack/treectl/internal/logging/events"
)

// DefaultTickRate is the interval between Tick events when none is configured.
const DefaultTickRate = 250 * time.Millisecond

// KeyReader blocks until the next key press.
type KeyReader interface {
	ReadKey() (Key, error)
}

// Subscription iterates change notifications from the window manager. Next
// blocks until a notification arrives and returns false once the stream ends;
// Err then reports why.
type Subscription interface {
	Next() bool
	Err() error
	Close() error
}

// Notifier opens a Subscription. Subscribe must register with the window
// manager before returning so no change is missed between setup and listening.
type Notifier interface {
	Subscribe() (Subscription, error)
}

// Config controls the producers.
type Config struct {
	ExitKey  Key
	TickRate time.Duration
}

// DefaultConfig quits the keyboard producer on q and ticks every 250ms.
func DefaultConfig() Config {
	return Config{ExitKey: Rune('q'), TickRate: DefaultTickRate}
}

func (c Config) withDefaults() Config {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.ExitKey == (Key{}) {
		c.ExitKey = Rune('q')
	}
	return c
}

// Aggregator fans the producers into one queue.
type Aggregator struct {
	cfg   Config
	queue *queue

	// ignoreExitKey only gates whether the keyboard producer stops after the
	// exit key; seeing a stale value for one key is harmless.
	ignoreExitKey atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	sub    Subscription

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New subscribes to notifier and starts the producers. A nil keys or notifier
// skips that producer. A subscription failure is returned before anything
// is started.
func New(cfg Config, keys KeyReader, notifier Notifier) (*Aggregator, error) {
	var sub Subscription
	if notifier != nil {
		s, err := notifier.Subscribe()
		if err != nil {
			return nil, fmt.Errorf("subscribe to tree notifications: %w", err)
		}
		sub = s
	}

	a := newAggregator(cfg)
	a.sub = sub
	if keys != nil {
		a.spawn("keyboard", func() { a.readKeys(keys) })
	}
	a.spawn("tick", a.tick)
	if sub != nil {
		a.spawn("notifications", func() { a.listen(sub) })
	}
	a.closeWhenDone()
	return a, nil
}

func newAggregator(cfg Config) *Aggregator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregator{
		cfg:    cfg.withDefaults(),
		queue:  newQueue(),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (a *Aggregator) spawn(name string, run func()) {
	a.wg.Add(1)
	events.Producer.Start(name)
	go func() {
		defer a.wg.Done()
		run()
	}()
}

// closeWhenDone closes the queue once every spawned producer has returned.
func (a *Aggregator) closeWhenDone() {
	go func() {
		a.wg.Wait()
		a.queue.close()
	}()
}

// Next blocks until an event is available. It returns ErrClosed after Close,
// or once every producer has stopped and the backlog is drained.
func (a *Aggregator) Next() (Event, error) {
	return a.queue.pop()
}

// DisableExitKey keeps the keyboard producer running after the exit key, for
// modes where the key is ordinary text.
func (a *Aggregator) DisableExitKey() {
	a.ignoreExitKey.Store(true)
	events.Producer.ExitKeyGate(false)
}

// EnableExitKey restores the default: the keyboard producer stops after
// forwarding the exit key.
func (a *Aggregator) EnableExitKey() {
	a.ignoreExitKey.Store(false)
	events.Producer.ExitKeyGate(true)
}

// ExitKeyEnabled reports the current gate state.
func (a *Aggregator) ExitKeyEnabled() bool {
	return !a.ignoreExitKey.Load()
}

// Close rejects further events and ends the subscription. Producers exit on
// their next push; the keyboard producer may stay blocked in ReadKey until a
// key arrives or the reader is closed.
func (a *Aggregator) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		a.queue.close()
		if a.sub != nil {
			if err := a.sub.Close(); err != nil {
				logging.Printf("close subscription: %v", err)
			}
		}
	})
}

// Wait blocks until every producer has exited.
func (a *Aggregator) Wait() {
	a.wg.Wait()
}

func (a *Aggregator) readKeys(r KeyReader) {
	for {
		key, err := r.ReadKey()
		if err != nil {
			if errors.Is(err, ErrUnsupportedKey) {
				events.Producer.SkipKey(err)
				continue
			}
			if errors.Is(err, io.EOF) {
				events.Producer.Stop("keyboard", events.ProducerReasonDone)
				return
			}
			logging.Printf("keyboard producer: %v", err)
			events.Producer.Stop("keyboard", events.ProducerReasonError)
			return
		}
		evt := KeyEvent(key)
		evt.Final = key == a.cfg.ExitKey && !a.ignoreExitKey.Load()
		if err := a.queue.push(evt); err != nil {
			events.Producer.Stop("keyboard", events.ProducerReasonClosed)
			return
		}
		if evt.Final {
			events.Producer.Stop("keyboard", events.ProducerReasonExitKey)
			return
		}
	}
}

func (a *Aggregator) tick() {
	for {
		if err := a.queue.push(Event{Kind: KindTick}); err != nil {
			events.Producer.Stop("tick", events.ProducerReasonClosed)
			return
		}
		select {
		case <-a.ctx.Done():
			events.Producer.Stop("tick", events.ProducerReasonClosed)
			return
		case <-time.After(a.cfg.TickRate):
		}
	}
}

func (a *Aggregator) listen(sub Subscription) {
	for sub.Next() {
		if err := a.queue.push(Event{Kind: KindTreeChanged}); err != nil {
			events.Producer.Stop("notifications", events.ProducerReasonClosed)
			return
		}
	}
	if a.ctx.Err() != nil {
		events.Producer.Stop("notifications", events.ProducerReasonClosed)
		return
	}
	err := sub.Err()
	if err == nil {
		err = ErrNotifyEnded
	}
	logging.Printf("notification producer: %v", err)
	events.Producer.Stop("notifications", events.ProducerReasonError)
	// The loop decides whether a dashboard without refreshes can go on.
	_ = a.queue.push(Event{Kind: KindNotifyLost, Err: err})
}
