package event

import "sync"

// queue is an unbounded FIFO safe for many producers and one consumer.
// Push never blocks; pop blocks until an item arrives or the queue is closed
// and empty.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *queue) push(evt Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, evt)
	q.cond.Signal()
	return nil
}

func (q *queue) pop() (Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Event{}, ErrClosed
	}
	evt := q.items[0]
	q.items[0] = Event{}
	q.items = q.items[1:]
	return evt, nil
}

// close rejects further pushes. Items already queued are still delivered.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
