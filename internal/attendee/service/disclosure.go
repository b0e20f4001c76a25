package service

import (
	"context"
	"crypto/subtle"
	"time"

	"passport/internal/attendee/models"
	"passport/internal/attendee/vcard"
	"passport/internal/scanqueue"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/requestcontext"
)

// Disclose resolves a short code and returns the policy-filtered profile.
//
// Policy: a matching unlock key grants owner-equivalent access (email and
// phone revealed unconditionally). A matching PIN reveals each contact field
// only if its share flag is set. A mismatched credential is Forbidden with a
// uniform message; a missing credential is BadRequest. Public fields are not
// served without a valid credential.
func (s *Service) Disclose(ctx context.Context, code string, creds models.Credentials) (*models.DisclosedProfile, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.DisclosureDuration.Observe(time.Since(start).Seconds())
		}
	}()

	u, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	if creds.Empty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "pin or unlock_key is required")
	}

	// Brute-force guard. Advisory: an unreachable backend fails open.
	locked, err := s.guard.Locked(ctx, u.ShortCode)
	if err != nil {
		s.logger.WarnContext(ctx, "lockout guard unavailable", "error", err.Error())
	} else if locked {
		return nil, dErrors.New(dErrors.CodeTooMany, "too many failed attempts, try again later")
	}

	ownerAccess := false
	method := "pin"
	switch {
	case creds.UnlockKey != "":
		if !equal(creds.UnlockKey, u.UnlockKey) {
			return nil, s.rejectCredential(ctx, u.ShortCode)
		}
		ownerAccess = true
		method = "unlock_key"
	default:
		if !equal(creds.PIN, u.PIN) {
			return nil, s.rejectCredential(ctx, u.ShortCode)
		}
	}
	if err := s.guard.Clear(ctx, u.ShortCode); err != nil {
		s.logger.WarnContext(ctx, "lockout guard unavailable", "error", err.Error())
	}

	profile := &models.DisclosedProfile{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		Company:     u.Company,
		Gender:      u.Gender,
		SocialLinks: u.SocialLinks,
	}
	if ownerAccess || u.Contact.ShareEmail {
		profile.Email = u.Contact.Email
	}
	if ownerAccess || u.Contact.SharePhone {
		profile.Phone = u.Contact.Phone
	}
	profile.VCard = vcard.Render(*profile)

	// Interaction-observed event: strictly best effort, never blocks or
	// fails the disclosure.
	if device := requestcontext.DeviceID(ctx); device != "" {
		s.queue.Emit(ctx, scanqueue.Event{
			Kind:       scanqueue.KindBadgeScanned,
			UserID:     u.ID,
			Device:     device,
			OccurredAt: requestcontext.Now(ctx),
		})
	}
	if s.metrics != nil {
		s.metrics.Disclosures.WithLabelValues(method).Inc()
	}

	return profile, nil
}

// rejectCredential counts the failure against the lockout budget and returns
// the uniform rejection.
func (s *Service) rejectCredential(ctx context.Context, shortCode string) error {
	if err := s.guard.RegisterFailure(ctx, shortCode); err != nil {
		s.logger.WarnContext(ctx, "lockout guard unavailable", "error", err.Error())
	}
	return dErrors.New(dErrors.CodeForbidden, credentialRejected)
}

// equal compares low-entropy credentials in constant time. Stored empty
// values never match so an unset PIN or unlock key cannot be "guessed" with
// an empty string.
func equal(supplied, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}
