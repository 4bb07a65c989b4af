package cache

import (
	"context"
	"testing"
	"time"

	"cooking-assistant/internal/core/ai/provider"
	"cooking-assistant/internal/infrastructure/config"
)

func newTestManager(maxSize int, ttl time.Duration) *Manager {
	return NewManager(config.CacheConfig{MaxSize: maxSize, TTL: ttl})
}

func TestManagerGetSet(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "a"); ok {
		t.Fatal("empty cache must miss")
	}
	if err := m.Set(ctx, "a", "apple"); err != nil {
		t.Fatalf("Set error = %v", err)
	}
	if v, ok := m.Get(ctx, "a"); !ok || v != "apple" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	stats := m.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestManagerExpiry(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	now := time.Now()
	m.now = func() time.Time { return now }

	_ = m.Set(context.Background(), "a", "apple")
	now = now.Add(2 * time.Minute)

	if _, ok := m.Get(context.Background(), "a"); ok {
		t.Fatal("expired entry must miss")
	}
	if m.GetStats().Evictions != 1 {
		t.Fatalf("evictions = %d, want 1", m.GetStats().Evictions)
	}
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m := newTestManager(2, time.Minute)
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "a", "1")
	_ = m.Set(ctx, "b", "2")
	m.Get(ctx, "a")
	_ = m.Set(ctx, "c", "3")

	if _, ok := m.Get(ctx, "b"); ok {
		t.Fatal("least used entry should have been evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := m.Get(ctx, key); !ok {
			t.Fatalf("%s should still be cached", key)
		}
	}
	if m.GetStats().Size != 2 {
		t.Fatalf("size = %d, want 2", m.GetStats().Size)
	}
}

func TestManagerOverwriteKeepsSize(t *testing.T) {
	m := newTestManager(1, time.Minute)
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "a", "1")
	_ = m.Set(ctx, "a", "2")
	if v, _ := m.Get(ctx, "a"); v != "2" {
		t.Fatalf("Get = %q, want 2", v)
	}
}

func TestManagerCloseStopsCleanup(t *testing.T) {
	m := NewManager(config.CacheConfig{MaxSize: 2, TTL: time.Minute, CleanupInterval: time.Millisecond})
	_ = m.Set(context.Background(), "a", "1")
	if err := m.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close error = %v", err)
	}
	if m.GetStats().Size != 0 {
		t.Fatal("Close must clear the cache")
	}
}

func TestKey(t *testing.T) {
	a := []provider.Message{{Role: provider.RoleUser, Content: "hello"}}
	b := []provider.Message{{Role: provider.RoleSystem, Content: "hello"}}

	if Key("m", a) != Key("m", a) {
		t.Fatal("Key must be deterministic")
	}
	if Key("m", a) == Key("m", b) {
		t.Fatal("role must be part of the key")
	}
	if Key("m1", a) == Key("m2", a) {
		t.Fatal("model must be part of the key")
	}
}
