package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := PlanKeyOpts{Variant: "full-to-random", Viewport: [2]int{800, 600}, Seed: 1, FPS: 30}
	pk1 := k.PlanKey(base)
	if pk1 != k.PlanKey(base) {
		t.Error("PlanKey should be deterministic")
	}
	if !strings.HasPrefix(pk1, "plan:") {
		t.Errorf("PlanKey should be prefixed with plan: got %s", pk1)
	}

	changed := base
	changed.Seed = 2
	if pk1 == k.PlanKey(changed) {
		t.Error("Different seeds should produce different plan keys")
	}

	if got := k.PlanIDKey("abc"); got != "planid:abc" {
		t.Errorf("PlanIDKey = %s, want planid:abc", got)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Frame: 0})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Frame: 1})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	opts := PlanKeyOpts{Variant: "random"}
	if got, want := scoped.PlanKey(opts), "user:123:"+inner.PlanKey(opts); got != want {
		t.Errorf("ScopedKeyer PlanKey = %s, want %s", got, want)
	}

	ak := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "png"})
	if !strings.HasPrefix(ak, "user:123:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.PlanKey(PlanKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().PlanKey(PlanKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("marked error should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("marked error should unwrap to its cause")
	}
	if IsRetryable(ErrNotFound) {
		t.Error("unmarked error should not be retryable")
	}
}

func TestBackoffDo(t *testing.T) {
	b := Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, true, 1, nil},
		{"recovers", 2, true, 3, nil},
		{"exhausted", 5, true, 3, ErrNetwork},
		{"permanent", 5, false, 1, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(context.Background(), func(context.Context) error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.retryable {
					return Retryable(ErrNetwork)
				}
				return ErrNotFound
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := Backoff{Attempts: 3, Initial: time.Hour}
	err := b.Do(ctx, func(context.Context) error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
