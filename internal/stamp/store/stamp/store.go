// Package stamp persists the append-only stamp ledger.
package stamp

import (
	"context"

	"passport/internal/stamp/models"
)

// Store abstracts ledger persistence. Implementations return sentinel
// errors; services translate them into domain errors.
type Store interface {
	// Append adds a ledger row. Rows are never updated or deleted.
	Append(ctx context.Context, st models.Stamp) error

	// LatestForPair returns the most recent stamp for a (user, sponsor)
	// pair, or sentinel.ErrNotFound when the pair has never been stamped.
	LatestForPair(ctx context.Context, userID, sponsorID string) (*models.Stamp, error)

	// ListByUser returns all stamps for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Stamp, error)
}
