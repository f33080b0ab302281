package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := c.Set(ctx, "feed", []byte(`[1,2,3]`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := c.Get(ctx, "feed")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "feed", []byte("v"), 15*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	now = now.Add(10 * time.Second)
	if _, err := c.Get(ctx, "feed"); err != nil {
		t.Fatalf("entry expired too early: %v", err)
	}

	now = now.Add(10 * time.Second)
	if _, err := c.Get(ctx, "feed"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, "feed", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.Delete(ctx, "feed"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "feed"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}
