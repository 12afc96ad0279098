package pipeline

import (
	"context"
	"sync/atomic"
)

// Queue is a bounded FIFO connecting pipeline stages. Cooperative tasks use
// the blocking Send/Recv pair; the radio callback path uses TrySend, which
// never blocks and counts the events it sheds when the queue is full.
type Queue[T any] struct {
	ch      chan T
	dropped atomic.Uint64
}

func NewQueue[T any](depth int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, depth)}
}

// Send blocks until the value is queued or ctx is done.
func (q *Queue[T]) Send(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues the value if there is room, otherwise drops it, counts the
// drop and returns false. Never blocks.
func (q *Queue[T]) TrySend(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Recv blocks until a value arrives or ctx is done.
func (q *Queue[T]) Recv(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Dropped counts values shed by TrySend since creation.
func (q *Queue[T]) Dropped() uint64 { return q.dropped.Load() }

// Len is the number of values currently queued.
func (q *Queue[T]) Len() int { return len(q.ch) }
