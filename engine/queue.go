package engine

import "sync"

// Queue is the only shared mutable structure crossing threads:
// multi-producer, single-consumer, FIFO, unbounded. A missed poll cycle
// only delays display; unread events are retained.
type Queue struct {
	mu    sync.Mutex
	items []Event
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event. Safe from any goroutine.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()
}

// Drain removes and returns up to max queued events in emission order.
// max <= 0 drains everything. Intended for the single UI consumer.
func (q *Queue) Drain(max int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	if n == 0 {
		return nil
	}
	if max > 0 && max < n {
		n = max
	}
	out := make([]Event, n)
	copy(out, q.items[:n])
	rest := len(q.items) - n
	copy(q.items, q.items[n:])
	q.items = q.items[:rest]
	return out
}

// Len reports the number of unread events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
