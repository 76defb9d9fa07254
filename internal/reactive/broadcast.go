package reactive

import (
	"context"
	"sync"
)

// effectBuffer bounds how many undelivered emissions a subscriber may lag by.
const effectBuffer = 16

// Broadcast fans values out to zero or more subscribers with no replay:
// subscribers attaching after an emission never see it. Emit never blocks;
// a subscriber that falls more than effectBuffer emissions behind loses the
// overflow.
type Broadcast[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

// NewBroadcast creates an empty broadcast channel.
func NewBroadcast[T any]() *Broadcast[T] {
	return &Broadcast[T]{subs: make(map[chan T]struct{})}
}

// Emit delivers val to every current subscriber, at most once each.
func (b *Broadcast[T]) Emit(val T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- val:
		default: // Non-blocking if subscriber is full
		}
	}
}

// Subscribe registers a new subscriber. The channel is closed when ctx is
// canceled.
func (b *Broadcast[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, effectBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}
