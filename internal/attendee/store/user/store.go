// Package user persists passport records. Implementations return
// pkg/platform/sentinel errors; services translate those into domain errors.
package user

import (
	"context"
	"time"

	"passport/internal/attendee/models"
)

// Store is the directory storage contract.
//
// CreateIfUninitialized is the system's only write-write race and must be a
// single conditional write at the storage layer: it succeeds when no record
// exists for the identity, or when the existing record never completed
// initialization. An initialized record loses nothing and the call reports
// sentinel.ErrConflict.
//
// ApplyProfileUpdate must apply every field, set initialized, and clear the
// unlock key in one atomic conditional update guarded by the supplied key;
// a stale or consumed key matches no row and yields sentinel.ErrNoRowsUpdated.
type Store interface {
	CreateIfUninitialized(ctx context.Context, u *models.User) error
	FindByShortCode(ctx context.Context, shortCode string) (*models.User, error)
	SetUnlockKey(ctx context.Context, userID, key string, now time.Time) error
	ApplyProfileUpdate(ctx context.Context, userID, unlockKey string, upd models.ProfileUpdate, now time.Time) error
}
