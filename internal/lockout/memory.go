package lockout

import (
	"context"
	"sync"
	"time"
)

type record struct {
	failures    int
	windowStart time.Time
}

// InMemoryGuard keeps failure counts in a map with a sliding reset on window
// expiry. Suitable for single-node runs and tests.
type InMemoryGuard struct {
	mu        sync.Mutex
	records   map[string]*record
	threshold int
	window    time.Duration
	now       func() time.Time
}

type MemoryOption func(*InMemoryGuard)

func WithThreshold(n int) MemoryOption {
	return func(g *InMemoryGuard) { g.threshold = n }
}

func WithWindow(d time.Duration) MemoryOption {
	return func(g *InMemoryGuard) { g.window = d }
}

// WithClock overrides the time source in tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(g *InMemoryGuard) { g.now = now }
}

func NewInMemoryGuard(opts ...MemoryOption) *InMemoryGuard {
	g := &InMemoryGuard{
		records:   make(map[string]*record),
		threshold: DefaultThreshold,
		window:    DefaultWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *InMemoryGuard) Locked(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.records[key]
	if !ok {
		return false, nil
	}
	if g.now().Sub(r.windowStart) >= g.window {
		delete(g.records, key)
		return false, nil
	}
	return r.failures >= g.threshold, nil
}

func (g *InMemoryGuard) RegisterFailure(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	r, ok := g.records[key]
	if !ok || now.Sub(r.windowStart) >= g.window {
		g.records[key] = &record{failures: 1, windowStart: now}
		return nil
	}
	r.failures++
	return nil
}

func (g *InMemoryGuard) Clear(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.records, key)
	return nil
}
