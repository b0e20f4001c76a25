//go:build integration

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"passport/internal/attendee/models"
	"passport/pkg/platform/sentinel"
	"passport/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, &PostgresSuite{pg: containers.NewPostgresContainer(t, Schema)})
}

func (s *PostgresSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewPostgres(s.pg.DB)
	s.Require().NoError(s.pg.TruncateAll(s.ctx, "users"))
}

func seedUser() *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:        "user-1",
		ShortCode: "ABM90M2",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Company:   "Analytical Engines",
		Role:      "Engineer",
		Contact:   models.ContactInfo{Email: "a@x.com", Phone: "5551234567"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresSuite) TestCreateIfUninitialized() {
	s.Run("creates and reads back", func() {
		u := seedUser()
		s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))

		got, err := s.store.FindByShortCode(s.ctx, "ABM90M2")
		s.Require().NoError(err)
		s.Equal("Ada", got.FirstName)
		s.Equal("a@x.com", got.Contact.Email)
		s.False(got.Initialized)
		s.Empty(got.SocialLinks)
	})

	s.Run("overwrites an uninitialized record", func() {
		u := seedUser()
		s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))

		u.FirstName = "Augusta"
		s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))

		got, err := s.store.FindByShortCode(s.ctx, "ABM90M2")
		s.Require().NoError(err)
		s.Equal("Augusta", got.FirstName)
	})

	s.Run("re-ingest with a corrected short code retires the old one", func() {
		u := seedUser()
		s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))

		u.FirstName = "Augusta"
		u.ShortCode = "NEWC0D"
		s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))

		_, err := s.store.FindByShortCode(s.ctx, "ABM90M2")
		s.Require().True(errors.Is(err, sentinel.ErrNotFound))

		got, err := s.store.FindByShortCode(s.ctx, "NEWC0D")
		s.Require().NoError(err)
		s.Equal("Augusta", got.FirstName)
	})

	s.Run("refuses to touch an initialized record", func() {
		u := seedUser()
		s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))
		s.initialize(u.ID)

		u.FirstName = "Mallory"
		err := s.store.CreateIfUninitialized(s.ctx, u)
		s.Require().True(errors.Is(err, sentinel.ErrConflict))

		got, _ := s.store.FindByShortCode(s.ctx, "ABM90M2")
		s.Equal("Ada", got.FirstName)
	})
}

func (s *PostgresSuite) TestUnlockKeyLifecycle() {
	u := seedUser()
	s.Require().NoError(s.store.CreateIfUninitialized(s.ctx, u))
	now := time.Now().UTC()

	s.Require().NoError(s.store.SetUnlockKey(s.ctx, u.ID, "key-1", now))

	got, err := s.store.FindByShortCode(s.ctx, "ABM90M2")
	s.Require().NoError(err)
	s.Equal("key-1", got.UnlockKey)

	upd := models.ProfileUpdate{
		Email:      "new@x.com",
		Phone:      "5559999999",
		ShareEmail: true,
		PIN:        "4321",
		SocialLinks: []models.SocialLink{
			{Name: "linkedin", URL: "https://linkedin.com/in/ada"},
		},
	}

	s.Run("stale key matches no row", func() {
		err := s.store.ApplyProfileUpdate(s.ctx, u.ID, "wrong-key", upd, now)
		s.True(errors.Is(err, sentinel.ErrNoRowsUpdated))
	})

	s.Run("live key applies the update and is consumed", func() {
		s.Require().NoError(s.store.ApplyProfileUpdate(s.ctx, u.ID, "key-1", upd, now))

		got, err := s.store.FindByShortCode(s.ctx, "ABM90M2")
		s.Require().NoError(err)
		s.True(got.Initialized)
		s.Empty(got.UnlockKey)
		s.Equal("new@x.com", got.Contact.Email)
		s.True(got.Contact.ShareEmail)
		s.Require().Len(got.SocialLinks, 1)
		s.Equal("linkedin", got.SocialLinks[0].Name)
	})

	s.Run("consumed key cannot be replayed", func() {
		err := s.store.ApplyProfileUpdate(s.ctx, u.ID, "key-1", upd, now)
		s.True(errors.Is(err, sentinel.ErrNoRowsUpdated))
	})
}

func (s *PostgresSuite) TestSetUnlockKeyUnknownUser() {
	err := s.store.SetUnlockKey(s.ctx, "ghost", "key", time.Now())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresSuite) TestFindUnknownShortCode() {
	_, err := s.store.FindByShortCode(s.ctx, "ZZZZZZZ")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

// initialize flips the record the way a completed profile update would.
func (s *PostgresSuite) initialize(userID string) {
	_, err := s.pg.DB.ExecContext(s.ctx,
		`UPDATE users SET initialized = TRUE, unlock_key = NULL WHERE user_id = $1`, userID)
	s.Require().NoError(err)
}
