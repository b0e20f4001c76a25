package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"passport/internal/attendee/models"
	"passport/internal/attendee/store/user"
	"passport/internal/lockout"
	"passport/internal/scanqueue"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/requestcontext"
)

type DisclosureSuite struct {
	suite.Suite
	store   *user.InMemoryStore
	emitter *scanqueue.InMemoryEmitter
	svc     *Service
	ctx     context.Context
	code    string
	usedKey string
}

func TestDisclosureSuite(t *testing.T) {
	suite.Run(t, new(DisclosureSuite))
}

// SetupTest seeds the canonical privacy scenario: share_email=false,
// share_phone=true, PIN "1234".
func (s *DisclosureSuite) SetupTest() {
	s.store = user.NewInMemoryStore()
	s.emitter = scanqueue.NewInMemoryEmitter()
	s.svc = New(s.store, WithEmitter(s.emitter))
	s.ctx = requestcontext.WithTime(context.Background(),
		time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	u, created, err := s.svc.Ingest(s.ctx, testRegistration)
	s.Require().NoError(err)
	s.Require().True(created)
	s.code = u.ShortCode

	key, err := s.svc.IssueUnlockKey(s.ctx, s.code, "a@x.com")
	s.Require().NoError(err)
	s.usedKey = key
	s.Require().NoError(s.svc.UpdateProfile(s.ctx, s.code, key, models.ProfileUpdate{
		Email:      "a@x.com",
		Phone:      "5551234567",
		ShareEmail: false,
		SharePhone: true,
		PIN:        "1234",
		SocialLinks: []models.SocialLink{
			{Name: "linkedin", URL: "https://linkedin.com/in/ada"},
		},
	}))
}

func (s *DisclosureSuite) TestDisclose_PINRespectsShareFlags() {
	profile, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{PIN: "1234"})
	s.Require().NoError(err)

	s.Empty(profile.Email, "share_email=false must hide email from PIN access")
	s.Equal("5551234567", profile.Phone)
	s.Equal("Ada", profile.FirstName)
	s.NotContains(profile.VCard, "EMAIL")
	s.Contains(profile.VCard, "TEL:5551234567")
}

func (s *DisclosureSuite) TestDisclose_UnlockKeyRevealsEverything() {
	key, err := s.svc.IssueUnlockKey(s.ctx, s.code, "a@x.com")
	s.Require().NoError(err)

	profile, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{UnlockKey: key})
	s.Require().NoError(err)

	s.Equal("a@x.com", profile.Email, "unlock key overrides share flags")
	s.Equal("5551234567", profile.Phone)
	s.Contains(profile.VCard, "EMAIL:a@x.com")
}

func (s *DisclosureSuite) TestDisclose_WrongCredentials() {
	s.Run("wrong PIN", func() {
		_, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{PIN: "9999"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(credentialRejected, dErrors.MessageOf(err))
	})

	s.Run("wrong unlock key", func() {
		_, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{UnlockKey: "bogus"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(credentialRejected, dErrors.MessageOf(err))
	})

	s.Run("consumed key no longer grants access", func() {
		_, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{UnlockKey: s.usedKey})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *DisclosureSuite) TestDisclose_NoCredential() {
	_, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *DisclosureSuite) TestDisclose_UnknownCode() {
	_, err := s.svc.Disclose(s.ctx, "ZZZZZZ", models.Credentials{PIN: "1234"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DisclosureSuite) TestDisclose_EmitsScanEvent() {
	before := len(s.emitter.Events())

	ctx := requestcontext.WithDeviceID(s.ctx, "booth-kiosk-7")
	_, err := s.svc.Disclose(ctx, s.code, models.Credentials{PIN: "1234"})
	s.Require().NoError(err)

	events := s.emitter.Events()
	s.Require().Len(events, before+1)
	last := events[len(events)-1]
	s.Equal(scanqueue.KindBadgeScanned, last.Kind)
	s.Equal("booth-kiosk-7", last.Device)
	s.Equal("123456789012", last.UserID)
}

func (s *DisclosureSuite) TestDisclose_NoDeviceNoEvent() {
	before := len(s.emitter.Events())

	_, err := s.svc.Disclose(s.ctx, s.code, models.Credentials{PIN: "1234"})
	s.Require().NoError(err)

	s.Len(s.emitter.Events(), before)
}

func (s *DisclosureSuite) TestDisclose_LockoutAfterRepeatedFailures() {
	guarded := New(s.store,
		WithLockout(lockout.NewInMemoryGuard(lockout.WithThreshold(3))),
	)

	for i := 0; i < 3; i++ {
		_, err := guarded.Disclose(s.ctx, s.code, models.Credentials{PIN: "0000"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	}

	// Budget exhausted: even the correct PIN is refused until the window
	// lapses.
	_, err := guarded.Disclose(s.ctx, s.code, models.Credentials{PIN: "1234"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTooMany))
}

func (s *DisclosureSuite) TestDisclose_SuccessClearsFailureBudget() {
	guarded := New(s.store,
		WithLockout(lockout.NewInMemoryGuard(lockout.WithThreshold(3))),
	)

	for i := 0; i < 2; i++ {
		_, err := guarded.Disclose(s.ctx, s.code, models.Credentials{PIN: "0000"})
		s.Require().Error(err)
	}

	_, err := guarded.Disclose(s.ctx, s.code, models.Credentials{PIN: "1234"})
	s.Require().NoError(err)

	// The earlier failures no longer count.
	for i := 0; i < 2; i++ {
		_, err = guarded.Disclose(s.ctx, s.code, models.Credentials{PIN: "0000"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	}
}
