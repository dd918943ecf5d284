package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{
		Now: func() time.Time { return now },
	})

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(context.Background(), "client-1", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if decision.Remaining != 3-(i+1) {
			t.Fatalf("request %d: expected remaining %d, got %d", i, 3-(i+1), decision.Remaining)
		}
	}

	decision, err := limiter.Allow(context.Background(), "client-1", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if decision.Allowed {
		t.Fatal("fourth request in the window must be denied")
	}
	if !decision.ResetAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected reset time %v", decision.ResetAt)
	}

	// A different key has its own bucket.
	decision, err = limiter.Allow(context.Background(), "client-2", 3, time.Minute)
	if err != nil || !decision.Allowed {
		t.Fatalf("other key should be allowed: %+v %v", decision, err)
	}
}

func TestMemoryLimiter_WindowRollover(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{
		Now: func() time.Time { return now },
	})

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(context.Background(), "client-1", 2, time.Minute); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}
	if decision, _ := limiter.Allow(context.Background(), "client-1", 2, time.Minute); decision.Allowed {
		t.Fatal("expected denial at limit")
	}

	now = now.Add(time.Minute + time.Second)
	decision, err := limiter.Allow(context.Background(), "client-1", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow after rollover: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("new window must reset the counter")
	}
}

func TestMemoryLimiter_ZeroLimitAllows(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "client-1", 0, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("a non-positive limit disables limiting")
	}
}

func TestMemoryLimiter_CapacityEviction(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{
		Now:     func() time.Time { return now },
		MaxKeys: 2,
	})

	if _, err := limiter.Allow(context.Background(), "a", 1, time.Minute); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if _, err := limiter.Allow(context.Background(), "b", 1, time.Minute); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if _, err := limiter.Allow(context.Background(), "c", 1, time.Minute); err == nil {
		t.Fatal("expected capacity error while all buckets are live")
	}

	// Once the existing windows lapse, eviction makes room.
	now = now.Add(2 * time.Minute)
	if _, err := limiter.Allow(context.Background(), "c", 1, time.Minute); err != nil {
		t.Fatalf("allow after eviction: %v", err)
	}
}
