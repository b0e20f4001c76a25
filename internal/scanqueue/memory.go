package scanqueue

import (
	"context"
	"sync"
)

// InMemoryEmitter records events for assertions in tests.
type InMemoryEmitter struct {
	mu     sync.Mutex
	events []Event
}

func NewInMemoryEmitter() *InMemoryEmitter {
	return &InMemoryEmitter{}
}

func (m *InMemoryEmitter) Emit(_ context.Context, e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a snapshot of everything emitted so far.
func (m *InMemoryEmitter) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
