package security

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

func TestRateLimiter(t *testing.T) {
	tests := []struct {
		name     string
		rate     int
		requests int
		allowed  int
	}{
		{name: "under limit", rate: 5, requests: 3, allowed: 3},
		{name: "at limit", rate: 3, requests: 3, allowed: 3},
		{name: "over limit", rate: 2, requests: 5, allowed: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.rate, time.Minute)
			defer rl.Close()

			allowed := 0
			for i := 0; i < tt.requests; i++ {
				if rl.Allow(context.Background(), "203.0.113.1") {
					allowed++
				}
			}
			if allowed != tt.allowed {
				t.Errorf("allowed = %d, want %d", allowed, tt.allowed)
			}
		})
	}
}

func TestRateLimiterSeparateKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()

	ctx := context.Background()
	if !rl.Allow(ctx, "a") {
		t.Error("first request for a should be allowed")
	}
	if !rl.Allow(ctx, "b") {
		t.Error("first request for b should be allowed")
	}
	if rl.Allow(ctx, "a") {
		t.Error("second request for a should be denied")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Close()

	ctx := context.Background()
	if !rl.Allow(ctx, "a") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow(ctx, "a") {
		t.Fatal("second request should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.Allow(ctx, "a") {
		t.Error("request after the window should be allowed")
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisLimiter(client, 1, time.Minute, "test:", zaptest.NewLogger(t))
	for i := 0; i < 3; i++ {
		if !l.Allow(context.Background(), "a") {
			t.Fatalf("request %d denied while redis is unreachable", i)
		}
	}
}

func TestLimiterImplementations(t *testing.T) {
	var _ Limiter = (*RateLimiter)(nil)
	var _ Limiter = (*RedisLimiter)(nil)
}
