package redis

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	calls []string
	allow bool
}

func (s *stubLimiter) Allow(identifier string) (bool, error) {
	s.calls = append(s.calls, identifier)
	return s.allow, nil
}

func TestRateLimitStore_FallsBackWhenRedisIsDown(t *testing.T) {
	// Nothing listens on port 1.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	fallback := &stubLimiter{allow: true}
	store := NewRateLimitStore(client, "users-list", 10, time.Minute, fallback, zerolog.Nop())

	ok, err := store.Allow("10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected fallback decision to allow")
	}
	if len(fallback.calls) != 1 || fallback.calls[0] != "10.0.0.1" {
		t.Errorf("fallback calls: got %v", fallback.calls)
	}

	fallback.allow = false
	ok, _ = store.Allow("10.0.0.1")
	if ok {
		t.Error("expected fallback decision to deny")
	}
}

func TestRateLimitStore_KeyChangesPerWindow(t *testing.T) {
	store := NewRateLimitStore(nil, "users-list", 10, time.Minute, &stubLimiter{}, zerolog.Nop())
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	k1 := store.key("a")
	store.now = func() time.Time { return base.Add(59 * time.Second) }
	k2 := store.key("a")
	store.now = func() time.Time { return base.Add(time.Minute) }
	k3 := store.key("a")

	if k1 != k2 {
		t.Errorf("same window produced different keys: %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Errorf("next window reused key %s", k1)
	}
	if store.key("b") == k3 {
		t.Error("different identifiers share a key")
	}

	other := NewRateLimitStore(nil, "users-delete", 5, time.Minute, &stubLimiter{}, zerolog.Nop())
	other.now = store.now
	if other.key("a") == k3 {
		t.Error("different limits share a key")
	}
}
