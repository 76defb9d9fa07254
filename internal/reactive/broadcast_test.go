package reactive

import (
	"context"
	"testing"
	"time"
)

func TestBroadcast_DeliversToAllSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcast[string]()
	a := b.Subscribe(ctx)
	c := b.Subscribe(ctx)

	b.Emit("hello")

	if got := recv(t, a); got != "hello" {
		t.Errorf("subscriber a: expected hello, got %q", got)
	}
	if got := recv(t, c); got != "hello" {
		t.Errorf("subscriber c: expected hello, got %q", got)
	}
}

func TestBroadcast_NoReplayForLateSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcast[int]()
	b.Emit(1)

	late := b.Subscribe(ctx)

	select {
	case v := <-late:
		t.Errorf("late subscriber received replayed value %d", v)
	case <-time.After(50 * time.Millisecond):
		// Expected: nothing delivered retroactively.
	}
}

func TestBroadcast_EmitWithoutSubscribersDoesNotBlock(t *testing.T) {
	b := NewBroadcast[int]()

	done := make(chan struct{})
	go func() {
		b.Emit(1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked with no subscribers")
	}
}

func TestBroadcast_DeliveredAtMostOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcast[int]()
	sub := b.Subscribe(ctx)

	b.Emit(1)
	b.Emit(2)

	if got := recv(t, sub); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := recv(t, sub); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}

	select {
	case v := <-sub:
		t.Errorf("received duplicate emission %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcast_CancelClosesSubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	b := NewBroadcast[int]()
	sub := b.Subscribe(ctx)

	cancel()

	if _, ok := recvClosed(t, sub); ok {
		t.Error("expected channel to close after cancel")
	}
}
