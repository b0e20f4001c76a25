// Package cooldown provides a best-effort repeat-scan guard in front of the
// stamp ledger.
package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a (user, sponsor) pair may be stamped right now.
// Implementations are advisory: the ledger query remains the source of
// truth, and any limiter error must be treated as "allowed".
type Limiter interface {
	// Reserve claims the cooldown slot for the pair. It returns false when
	// the slot is already held, meaning the pair was stamped within the
	// window.
	Reserve(ctx context.Context, userID, sponsorID string) (bool, error)

	// Release frees the slot, used when the ledger write fails after a
	// successful reservation.
	Release(ctx context.Context, userID, sponsorID string)
}

// RedisLimiter implements the guard with SET NX and a TTL equal to the
// cooldown window.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, window: window}
}

func key(userID, sponsorID string) string {
	return fmt.Sprintf("stamp:cooldown:%s:%s", userID, sponsorID)
}

func (l *RedisLimiter) Reserve(ctx context.Context, userID, sponsorID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, key(userID, sponsorID), 1, l.window).Result()
	if err != nil {
		return false, fmt.Errorf("reserve cooldown: %w", err)
	}
	return ok, nil
}

func (l *RedisLimiter) Release(ctx context.Context, userID, sponsorID string) {
	l.client.Del(ctx, key(userID, sponsorID))
}

// Nop allows every reservation. Used when Redis is not configured.
type Nop struct{}

func (Nop) Reserve(context.Context, string, string) (bool, error) { return true, nil }
func (Nop) Release(context.Context, string, string)               {}
