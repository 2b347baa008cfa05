package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a best-effort throttle, not a correctness mechanism.
// Allow reports whether one more request under the key fits in the window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryRateLimiter is a fixed-window counter on an in-process TTL cache.
// Counters are unsynchronized across server instances.
type MemoryRateLimiter struct {
	cache  *gocache.Cache
	limit  int
	window time.Duration
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		cache:  gocache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

func (rl *MemoryRateLimiter) Allow(_ context.Context, key string) bool {
	count, err := rl.cache.IncrementInt64(key, 1)
	if err != nil {
		// First hit in this window
		rl.cache.Set(key, int64(1), rl.window)
		return true
	}
	return count <= int64(rl.limit)
}

// RedisRateLimiter shares a fixed-window counter across instances via
// INCR + EXPIRE. Backend errors deny the request.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	fullKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := rl.client.Incr(ctx, fullKey).Result()
	if err != nil {
		slog.Warn("Rate limit check failed, denying request for safety", "key", key, "error", err)
		return false
	}
	if count == 1 {
		rl.client.Expire(ctx, fullKey, rl.window)
	}

	return count <= int64(rl.limit)
}

// NewRateLimiterFromConfig picks the Redis backend when an address is
// configured and falls back to the in-process window otherwise. The choice
// is deployment configuration, not application logic.
func NewRateLimiterFromConfig(redisAddr string, limit int, window time.Duration) RateLimiter {
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		slog.Info("Using Redis rate limiter", "addr", redisAddr)
		return NewRedisRateLimiter(client, limit, window)
	}
	return NewMemoryRateLimiter(limit, window)
}
