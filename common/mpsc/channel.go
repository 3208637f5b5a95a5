// Package mpsc implements an unbounded multi-producer, single-consumer queue.
//
// Senders never block. The queue is closed once every sender handle has been
// closed, after which the receiver drains the remaining items and then reports
// the end of the stream.
package mpsc

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrClosed is returned when sending on a sender that has already been closed.
var ErrClosed = errors.New("mpsc: send on closed sender")

// Storage above idleCap is released once the queue drains.
const idleCap = 1024

type queue[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []T
	head    int
	senders int
}

// Sender is one producer handle. Clone it for every additional producer.
type Sender[T any] struct {
	q      *queue[T]
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

// Receiver is the single consuming handle.
type Receiver[T any] struct {
	q *queue[T]
}

// New creates a queue with one sender.
func New[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{senders: 1}
	q.cond = sync.NewCond(&q.mu)
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Send enqueues v without blocking.
func (s *Sender[T]) Send(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	q := s.q
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.cond.Signal()
	return nil
}

// Clone registers a new sender on the same queue. Cloning a closed sender
// returns ErrClosed since the queue may already be finished.
func (s *Sender[T]) Clone() (*Sender[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	s.q.mu.Lock()
	s.q.senders++
	s.q.mu.Unlock()
	return &Sender[T]{q: s.q}, nil
}

// Close releases this sender. It is safe to call more than once.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		q := s.q
		q.mu.Lock()
		q.senders--
		last := q.senders == 0
		q.mu.Unlock()
		if last {
			q.cond.Broadcast()
		}
	})
}

// Recv blocks until an item is available or the queue is closed and drained.
// The boolean is false only in the latter case.
func (r *Receiver[T]) Recv() (T, bool) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && q.senders > 0 {
		q.cond.Wait()
	}
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	switch {
	case q.head == len(q.items):
		if cap(q.items) > idleCap {
			q.items = nil
		} else {
			q.items = q.items[:0]
		}
		q.head = 0
	case q.head*2 >= len(q.items):
		// Consumed slots outnumber pending ones; move the backlog to the front.
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}

// Len returns the number of queued items.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items) - r.q.head
}
