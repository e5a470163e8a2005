// Package queue provides the bounded FIFO that carries audio chunks from the
// capture callback to the segmenter worker.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Pop once the queue has been closed and drained.
var ErrClosed = errors.New("queue closed")

// Bounded is a FIFO with a fixed maximum depth. Push never blocks: when the
// queue is full the oldest item is discarded to make room. Pop blocks until
// an item is available.
type Bounded[T any] struct {
	mu      sync.Mutex
	items   []T
	head    int
	size    int
	closed  bool
	dropped uint64
	ready   chan struct{}
}

// NewBounded creates a queue holding at most depth items.
func NewBounded[T any](depth int) *Bounded[T] {
	if depth <= 0 {
		depth = 1
	}
	return &Bounded[T]{
		items: make([]T, depth),
		ready: make(chan struct{}, 1),
	}
}

// Push appends item. It reports false when an older item had to be dropped
// or the queue is closed.
func (q *Bounded[T]) Push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	accepted := true
	if q.size == len(q.items) {
		var zero T
		q.items[q.head] = zero
		q.head = (q.head + 1) % len(q.items)
		q.size--
		q.dropped++
		accepted = false
	}
	q.items[(q.head+q.size)%len(q.items)] = item
	q.size++
	q.mu.Unlock()

	q.signal()
	return accepted
}

// Pop removes and returns the oldest item. It blocks until an item arrives,
// ctx is done, or the queue is closed and empty.
func (q *Bounded[T]) Pop(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if q.size > 0 {
			item := q.items[q.head]
			var zero T
			q.items[q.head] = zero
			q.head = (q.head + 1) % len(q.items)
			q.size--
			more := q.size > 0
			q.mu.Unlock()
			if more {
				q.signal()
			}
			return item, nil
		}
		closed := q.closed
		q.mu.Unlock()

		var zero T
		if closed {
			return zero, ErrClosed
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.ready:
		}
	}
}

// Close wakes any blocked Pop. Items already queued can still be popped.
func (q *Bounded[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of queued items.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Dropped returns how many items were discarded because the queue was full.
func (q *Bounded[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *Bounded[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
