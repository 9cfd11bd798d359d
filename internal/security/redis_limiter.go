package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis client connected", zap.String("addr", addr))
	return rdb, nil
}

// RedisLimiter is a fixed window limiter shared by every server instance.
// Redis errors let the request through.
type RedisLimiter struct {
	client *redis.Client
	rate   int
	window time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisLimiter creates a limiter storing counters under prefix
func NewRedisLimiter(client *redis.Client, rate int, window time.Duration, prefix string, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		rate:   rate,
		window: window,
		prefix: prefix,
		logger: logger,
	}
}

// Allow increments the window counter for key and reports whether it is within the rate
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	k := l.prefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.String("key", k), zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			l.logger.Warn("failed to set rate limit window", zap.String("key", k), zap.Error(err))
		}
	}
	return count <= int64(l.rate)
}
