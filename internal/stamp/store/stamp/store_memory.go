package stamp

import (
	"context"
	"sort"
	"sync"

	"passport/internal/stamp/models"
	"passport/pkg/platform/sentinel"
)

// InMemoryStore keeps the ledger in a per-user slice. Used in tests and for
// single-node runs without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]models.Stamp
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byUser: make(map[string][]models.Stamp)}
}

func (s *InMemoryStore) Append(_ context.Context, st models.Stamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[st.UserID] = append(s.byUser[st.UserID], st)
	return nil
}

func (s *InMemoryStore) LatestForPair(_ context.Context, userID, sponsorID string) (*models.Stamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Stamp
	for i := range s.byUser[userID] {
		st := s.byUser[userID][i]
		if st.SponsorID != sponsorID {
			continue
		}
		if latest == nil || newer(st, *latest) {
			cp := st
			latest = &cp
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	return latest, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]models.Stamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.Stamp(nil), s.byUser[userID]...)
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out, nil
}

// newer orders stamps most recent first, matching the ledger queries. KSUIDs
// break ties because their second-level timestamp prefix is too coarse on
// its own.
func newer(a, b models.Stamp) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
