//go:build integration

package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/pkg/testutil/containers"
)

func TestRedisLimiter(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	limiter := NewRedisLimiter(rc.Client, 10*time.Minute)

	t.Run("first reservation wins, repeat loses", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		ok, err := limiter.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = limiter.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("pairs are independent", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		_, err := limiter.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)

		ok, err := limiter.Reserve(ctx, "u1", "globex")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = limiter.Reserve(ctx, "u2", "acme")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the slot", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		_, err := limiter.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)

		limiter.Release(ctx, "u1", "acme")

		ok, err := limiter.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("reservation expires with the window", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		short := NewRedisLimiter(rc.Client, 100*time.Millisecond)

		_, err := short.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)

		time.Sleep(150 * time.Millisecond)

		ok, err := short.Reserve(ctx, "u1", "acme")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
