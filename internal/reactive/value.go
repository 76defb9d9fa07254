// Package reactive provides the channel primitives behind the show-details
// engine: a latest-value cell with replay-one subscriptions, a no-replay
// broadcast, and an unbounded FIFO queue.
package reactive

import (
	"context"
	"sync"
)

// Value is a concurrency-safe latest-value cell. Subscribers receive the
// current value immediately and then every change, conflated: a slow reader
// observes the latest value, not a log of intermediate transitions.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[chan T]struct{}
}

// NewValue creates a cell holding the given initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[chan T]struct{}),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores val and notifies all subscribers, replacing any undelivered
// previous value so each subscriber converges on the latest.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = val
	for ch := range v.subs {
		// Drop a stale pending value, then deliver the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- val:
		default:
		}
	}
}

// Subscribe returns a channel that yields the current value immediately and
// then each subsequent change. The channel is closed when ctx is canceled.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	ch <- v.current
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}
