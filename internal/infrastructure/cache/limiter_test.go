package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, limit, window), mini
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	now := time.Date(2026, 5, 1, 12, 0, 10, 0, time.UTC)
	limiter.clock = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed || d.Remaining != 2-i {
			t.Fatalf("request %d: got %+v", i, d)
		}
	}

	d, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("expected rejection, got %+v", d)
	}
	if !d.ResetAt.Equal(time.Date(2026, 5, 1, 12, 1, 0, 0, time.UTC)) {
		t.Fatalf("unexpected reset %v", d.ResetAt)
	}

	other, err := limiter.Allow(ctx, "10.0.0.2")
	if err != nil || !other.Allowed {
		t.Fatalf("other clients must not share the window: %+v %v", other, err)
	}
}

func TestRateLimiterNewWindowResets(t *testing.T) {
	limiter, mini := newTestLimiter(t, 1, time.Minute)
	now := time.Date(2026, 5, 1, 12, 0, 59, 0, time.UTC)
	limiter.clock = func() time.Time { return now }

	ctx := context.Background()
	if d, _ := limiter.Allow(ctx, "ip"); !d.Allowed {
		t.Fatalf("first request rejected")
	}
	if d, _ := limiter.Allow(ctx, "ip"); d.Allowed {
		t.Fatalf("second request allowed")
	}

	now = now.Add(2 * time.Second)
	if d, _ := limiter.Allow(ctx, "ip"); !d.Allowed {
		t.Fatalf("request in the next window rejected")
	}

	mini.FastForward(2 * time.Minute)
	if keys := mini.Keys(); len(keys) != 0 {
		t.Fatalf("expected windows to expire, still have %v", keys)
	}
}
