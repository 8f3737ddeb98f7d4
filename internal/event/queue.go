// Package event provides the notification channel between the debug
// engine and its consumers.
//
// A Queue decouples producers from the single consumer: Publish only
// appends and never blocks or calls back into user code, so a producer's
// own state is settled before any handler observes the event. Delivery
// happens on a later turn, either in the goroutine running Run or when
// the owner calls Drain.
package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// PanicHandler is called when a Run handler panics.
type PanicHandler func(value any, stack []byte)

// Stats is a snapshot of queue counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Panicked  uint64
	Pending   int
}

// Queue is an unbounded FIFO of events with a single consumer.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{}
	closed bool

	consuming atomic.Bool

	panicHandler PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	panicked  atomic.Uint64
}

// Option configures a Queue.
type Option func(*options)

type options struct {
	panicHandler PanicHandler
}

// WithPanicHandler sets the handler for panics raised by Run handlers.
// By default the panic is recovered and dropped.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.panicHandler = h
	}
}

// NewQueue creates an empty, open queue.
func NewQueue[T any](opts ...Option) *Queue[T] {
	o := options{panicHandler: func(any, []byte) {}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Queue[T]{
		ready:        make(chan struct{}, 1),
		panicHandler: o.panicHandler,
	}
}

// Publish appends v. It returns ErrQueueClosed after Close.
func (q *Queue[T]) Publish(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.published.Add(1)
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Drain removes and returns all pending events in publish order.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	q.delivered.Add(uint64(len(items)))
	return items
}

// Len returns the number of pending events.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting events. Pending events can still be drained and
// Run returns once they have been delivered.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Run delivers events to handler one at a time until the queue is closed
// and empty, or ctx is done. Only one Run may be active per queue.
func (q *Queue[T]) Run(ctx context.Context, handler func(T)) error {
	if handler == nil {
		return ErrNilHandler
	}
	if !q.consuming.CompareAndSwap(false, true) {
		return ErrConsumerRunning
	}
	defer q.consuming.Store(false)

	for {
		for _, item := range q.Drain() {
			q.deliver(handler, item)
		}

		q.mu.Lock()
		done := q.closed && len(q.items) == 0
		q.mu.Unlock()
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.ready:
		}
	}
}

func (q *Queue[T]) deliver(handler func(T), item T) {
	defer func() {
		if r := recover(); r != nil {
			q.panicked.Add(1)
			q.panicHandler(r, debug.Stack())
		}
	}()
	handler(item)
}

// Stats returns the current counters.
func (q *Queue[T]) Stats() Stats {
	return Stats{
		Published: q.published.Load(),
		Delivered: q.delivered.Load(),
		Panicked:  q.panicked.Load(),
		Pending:   q.Len(),
	}
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("published=%d delivered=%d panicked=%d pending=%d",
		s.Published, s.Delivered, s.Panicked, s.Pending)
}
