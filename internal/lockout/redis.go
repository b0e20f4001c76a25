package lockout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard shares the failure budget across nodes with a counter that
// expires after the window.
type RedisGuard struct {
	client    *redis.Client
	threshold int
	window    time.Duration
}

func NewRedisGuard(client *redis.Client, threshold int, window time.Duration) *RedisGuard {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisGuard{client: client, threshold: threshold, window: window}
}

func failureKey(key string) string {
	return fmt.Sprintf("lockout:failures:%s", key)
}

func (g *RedisGuard) Locked(ctx context.Context, key string) (bool, error) {
	count, err := g.client.Get(ctx, failureKey(key)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lockout lookup: %w", err)
	}
	return count >= g.threshold, nil
}

func (g *RedisGuard) RegisterFailure(ctx context.Context, key string) error {
	k := failureKey(key)
	pipe := g.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, g.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lockout register failure: %w", err)
	}
	return nil
}

func (g *RedisGuard) Clear(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, failureKey(key)).Err(); err != nil {
		return fmt.Errorf("lockout clear: %w", err)
	}
	return nil
}
