package sponsor

import (
	"context"
	"sync"

	"passport/internal/sponsor/models"
	"passport/pkg/platform/sentinel"
)

// InMemoryStore keeps sponsor accounts in a map. Used in tests and for
// single-node runs without a database.
type InMemoryStore struct {
	mu       sync.RWMutex
	sponsors map[string]models.Sponsor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sponsors: make(map[string]models.Sponsor)}
}

func (s *InMemoryStore) Create(_ context.Context, sp models.Sponsor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sponsors[sp.ID]; exists {
		return sentinel.ErrConflict
	}
	s.sponsors[sp.ID] = sp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Sponsor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.sponsors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := sp
	cp.SecretHash = append([]byte(nil), sp.SecretHash...)
	return &cp, nil
}
