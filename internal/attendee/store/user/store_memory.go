package user

import (
	"context"
	"sync"
	"time"

	"passport/internal/attendee/models"
	"passport/pkg/platform/sentinel"
)

// InMemoryStore keeps passport records in process memory. It is the unit
// test double and the zero-dependency development mode.
type InMemoryStore struct {
	mu          sync.RWMutex
	users       map[string]*models.User // keyed by user ID
	byShortCode map[string]string       // short code -> user ID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:       make(map[string]*models.User),
		byShortCode: make(map[string]string),
	}
}

func (s *InMemoryStore) CreateIfUninitialized(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[u.ID]; ok {
		if existing.Initialized {
			return sentinel.ErrConflict
		}
		// Re-ingest may carry corrected identity fields and therefore a new
		// short code. The old code must stop resolving, same as the postgres
		// upsert replacing the short_code column.
		if existing.ShortCode != u.ShortCode {
			delete(s.byShortCode, existing.ShortCode)
		}
	}
	clone := cloneUser(u)
	s.users[u.ID] = clone
	s.byShortCode[u.ShortCode] = u.ID
	return nil
}

func (s *InMemoryStore) FindByShortCode(_ context.Context, shortCode string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byShortCode[shortCode]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *InMemoryStore) SetUnlockKey(_ context.Context, userID, key string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.UnlockKey = key
	u.UpdatedAt = now
	return nil
}

func (s *InMemoryStore) ApplyProfileUpdate(_ context.Context, userID, unlockKey string, upd models.ProfileUpdate, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	// The key guard and the mutation happen under one lock so a concurrent
	// replay cannot slip between check and write.
	if u.UnlockKey == "" || u.UnlockKey != unlockKey {
		return sentinel.ErrNoRowsUpdated
	}

	u.Contact.Email = upd.Email
	u.Contact.Phone = upd.Phone
	u.Contact.ShareEmail = upd.ShareEmail
	u.Contact.SharePhone = upd.SharePhone
	u.PIN = upd.PIN
	u.SocialLinks = append([]models.SocialLink(nil), upd.SocialLinks...)
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	} else {
		u.Gender = ""
	}
	u.ProfileType = upd.ProfileType
	u.AgeRange = upd.AgeRange
	u.AreaOfInterest = upd.AreaOfInterest
	u.Initialized = true
	u.UnlockKey = ""
	u.UpdatedAt = now
	return nil
}

func cloneUser(u *models.User) *models.User {
	clone := *u
	clone.SocialLinks = append([]models.SocialLink(nil), u.SocialLinks...)
	return &clone
}
