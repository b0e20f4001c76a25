// Package sponsor persists sponsor accounts.
package sponsor

import (
	"context"

	"passport/internal/sponsor/models"
)

// Store abstracts sponsor account persistence. Implementations return
// sentinel errors; services translate them into domain errors.
type Store interface {
	// Create inserts a sponsor. Returns sentinel.ErrConflict when the ID
	// is already taken.
	Create(ctx context.Context, s models.Sponsor) error

	// FindByID returns the sponsor or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Sponsor, error)
}
