package showdetails

import (
	"context"
	"sync"

	"github.com/tamojit-123/tivi/internal/reactive"
)

// LoadingCounter tracks concurrently running refresh operations and exposes
// the aggregate as a busy/idle boolean. Callers must pair every AddLoader
// with exactly one RemoveLoader, on failure paths included; the count going
// negative is a programming error, not a runtime condition.
type LoadingCounter struct {
	mu      sync.Mutex
	count   int
	loading *reactive.Value[bool]
}

// NewLoadingCounter creates an idle counter.
func NewLoadingCounter() *LoadingCounter {
	return &LoadingCounter{loading: reactive.NewValue(false)}
}

// AddLoader registers one in-flight operation.
func (c *LoadingCounter) AddLoader() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	// Publish under the lock so concurrent add/remove pairs cannot leave the
	// flag out of step with the count.
	c.loading.Set(c.count > 0)
}

// RemoveLoader releases one in-flight operation.
func (c *LoadingCounter) RemoveLoader() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count--
	c.loading.Set(c.count > 0)
}

// IsLoading reports whether any operation is in flight.
func (c *LoadingCounter) IsLoading() bool {
	return c.loading.Get()
}

// Observe returns a conflated stream of the busy flag. Observers see the
// current value, not every transition.
func (c *LoadingCounter) Observe(ctx context.Context) <-chan bool {
	return c.loading.Subscribe(ctx)
}
