package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

// FixedWindowThrottle allows at most limit hits per key within each window.
type FixedWindowThrottle struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewFixedWindowThrottle(client *redis.Client, prefix string, limit int, window time.Duration) *FixedWindowThrottle {
	if prefix == "" {
		prefix = "throttle"
	}
	if window <= 0 {
		window = time.Hour
	}
	return &FixedWindowThrottle{client: client, prefix: prefix, limit: int64(limit), window: window}
}

func (t *FixedWindowThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t.limit <= 0 {
		return true, nil
	}
	redisKey := t.prefix + ":" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis: throttle %s: %w", redisKey, err)
	}
	// -1 means the key has no expiry: a fresh window, or one whose EXPIRE was lost.
	if ttl.Val() == -1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil {
			return false, fmt.Errorf("redis: throttle expire %s: %w", redisKey, err)
		}
	}
	return incr.Val() <= t.limit, nil
}

var _ ports.SubmissionThrottle = (*FixedWindowThrottle)(nil)
