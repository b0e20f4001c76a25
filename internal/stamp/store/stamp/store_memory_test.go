package stamp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/stamp/models"
	"passport/pkg/platform/sentinel"
)

func newStamp(userID, sponsorID string, at time.Time) models.Stamp {
	return models.Stamp{
		ID:        ksuid.New().String(),
		UserID:    userID,
		SponsorID: sponsorID,
		CreatedAt: at,
	}
}

func TestLatestForPair(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	base := time.Now()

	require.NoError(t, store.Append(ctx, newStamp("u1", "acme", base)))
	require.NoError(t, store.Append(ctx, newStamp("u1", "acme", base.Add(time.Hour))))
	require.NoError(t, store.Append(ctx, newStamp("u1", "globex", base.Add(2*time.Hour))))

	latest, err := store.LatestForPair(ctx, "u1", "acme")
	require.NoError(t, err)
	assert.True(t, latest.CreatedAt.Equal(base.Add(time.Hour)))

	_, err = store.LatestForPair(ctx, "u1", "initech")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))

	_, err = store.LatestForPair(ctx, "u2", "acme")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	base := time.Now()

	for i, sponsor := range []string{"one", "two", "three"} {
		st := newStamp("u1", sponsor, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Append(ctx, st))
	}

	out, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "three", out[0].SponsorID)
	assert.Equal(t, "one", out[2].SponsorID)

	other, err := store.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
