package service

import (
	"context"
	"errors"

	"passport/internal/attendee/models"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

// UpdateProfile applies an attendee-authored profile update guarded by a
// live unlock key. The store consumes the key and applies every field in one
// conditional write, so a key can never be replayed even under concurrent
// requests.
func (s *Service) UpdateProfile(ctx context.Context, code, unlockKey string, upd models.ProfileUpdate) error {
	if unlockKey == "" {
		return dErrors.New(dErrors.CodeBadRequest, "unlock_key is required")
	}

	u, err := s.Resolve(ctx, code)
	if err != nil {
		return err
	}

	err = s.users.ApplyProfileUpdate(ctx, u.ID, unlockKey, upd, requestcontext.Now(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNoRowsUpdated):
			// Key mismatch and key-already-consumed are indistinguishable on
			// purpose.
			return dErrors.New(dErrors.CodeForbidden, credentialRejected)
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "short code not found")
		default:
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
		}
	}

	s.logger.InfoContext(ctx, "profile updated",
		"short_code", u.ShortCode,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.ProfilesUpdated.Inc()
	}
	return nil
}
