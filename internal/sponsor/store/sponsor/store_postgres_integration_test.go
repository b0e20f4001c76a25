//go:build integration

package sponsor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/sponsor/models"
	"passport/pkg/platform/sentinel"
	"passport/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t, Schema)
	store := NewPostgres(pg.DB)
	ctx := context.Background()

	sp := models.Sponsor{
		ID:         "acme",
		Name:       "Acme Corp",
		SecretHash: []byte("$2a$10$fakehashfortestingonly"),
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Create(ctx, sp))

	t.Run("find returns the stored account", func(t *testing.T) {
		got, err := store.FindByID(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
		assert.Equal(t, sp.SecretHash, got.SecretHash)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := store.Create(ctx, sp)
		assert.True(t, errors.Is(err, sentinel.ErrConflict))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := store.FindByID(ctx, "ghost")
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})
}
