package game

import "sync"

// queue is an unbounded FIFO of events. Pushing never blocks, so adapters may dispatch
// from inside a callback that runs on the session goroutine.
type queue struct {
	mu     sync.Mutex
	items  []event
	notify chan struct{}

	// pushed but not yet finished
	inflight int
}

type event struct {
	fn      func()
	publish bool
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1)}
}

func (q *queue) push(e event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.inflight++
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []event {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// finish marks one drained event as executed.
func (q *queue) finish() {
	q.mu.Lock()
	q.inflight--
	q.mu.Unlock()
}

// idle reports whether every pushed event has been executed.
func (q *queue) idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight == 0
}
