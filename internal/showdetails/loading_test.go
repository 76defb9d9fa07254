package showdetails

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLoadingCounter_StartsIdle(t *testing.T) {
	c := NewLoadingCounter()
	if c.IsLoading() {
		t.Error("new counter should be idle")
	}
}

func TestLoadingCounter_AddRemovePair(t *testing.T) {
	c := NewLoadingCounter()

	c.AddLoader()
	if !c.IsLoading() {
		t.Error("expected loading after AddLoader")
	}

	c.RemoveLoader()
	if c.IsLoading() {
		t.Error("expected idle after RemoveLoader")
	}
}

func TestLoadingCounter_BusyUntilLastRemove(t *testing.T) {
	c := NewLoadingCounter()

	// Four overlapping operations, released in arbitrary order: the flag
	// must hold from the first add until the last remove.
	for i := 0; i < 4; i++ {
		c.AddLoader()
	}
	for i := 0; i < 3; i++ {
		c.RemoveLoader()
		if !c.IsLoading() {
			t.Fatalf("counter went idle with %d operations still in flight", 3-i)
		}
	}
	c.RemoveLoader()
	if c.IsLoading() {
		t.Error("expected idle after final RemoveLoader")
	}
}

func TestLoadingCounter_ConcurrentPairs(t *testing.T) {
	c := NewLoadingCounter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddLoader()
			time.Sleep(time.Millisecond)
			c.RemoveLoader()
		}()
	}
	wg.Wait()

	if c.IsLoading() {
		t.Error("expected idle after all pairs completed")
	}
}

func TestLoadingCounter_ObserveReflectsCurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewLoadingCounter()
	ch := c.Observe(ctx)

	if busy := <-ch; busy {
		t.Error("expected initial observation to be idle")
	}

	c.AddLoader()
	if busy := <-ch; !busy {
		t.Error("expected busy after AddLoader")
	}

	c.RemoveLoader()
	if busy := <-ch; busy {
		t.Error("expected idle after RemoveLoader")
	}
}
