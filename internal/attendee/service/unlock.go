package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

const phoneSuffixLen = 6

// IssueUnlockKey verifies a weak ownership proof (the exact stored email or
// the last 6 characters of the stored phone) and mints a fresh single-use
// unlock key. A new key overwrites any prior unissued one, so at most one
// key is live per record.
func (s *Service) IssueUnlockKey(ctx context.Context, code, proof string) (string, error) {
	if proof == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "proof value is required")
	}

	u, err := s.Resolve(ctx, code)
	if err != nil {
		return "", err
	}

	if !proofMatches(proof, u.Contact.Email, u.Contact.Phone) {
		return "", dErrors.New(dErrors.CodeForbidden, credentialRejected)
	}

	key := uuid.NewString()
	if err := s.users.SetUnlockKey(ctx, u.ID, key, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "short code not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unavailable")
	}

	s.logger.InfoContext(ctx, "unlock key issued",
		"short_code", u.ShortCode,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.UnlockKeysIssued.Inc()
	}
	return key, nil
}

// proofMatches checks both proofs unconditionally so the work done does not
// depend on which one would have matched.
func proofMatches(proof, email, phone string) bool {
	emailOK := equal(proof, email)
	phoneOK := false
	if len(phone) >= phoneSuffixLen {
		phoneOK = equal(proof, phone[len(phone)-phoneSuffixLen:])
	}
	return emailOK || phoneOK
}
