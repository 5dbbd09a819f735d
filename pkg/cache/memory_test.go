package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := payload{Name: "weekly", Score: 0.82}
	if err := mc.Set(ctx, "k1", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, "k1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out payload
	err := mc.Get(context.Background(), "absent", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k1", payload{Name: "x"}, time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var out payload
	if err := mc.Get(ctx, "k1", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss after expiry, got %v", err)
	}
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "k1", payload{}, time.Minute)
	ok, err := mc.Exists(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("expected key to exist, ok=%v err=%v", ok, err)
	}

	if err := mc.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ = mc.Exists(ctx, "k1")
	if ok {
		t.Fatalf("expected key to be gone")
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", payload{Name: "a"}, time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", payload{Name: "b"}, time.Minute)
	time.Sleep(time.Millisecond)

	// touch "a" so "b" becomes the eviction candidate
	var out payload
	_ = mc.Get(ctx, "a", &out)

	_ = mc.Set(ctx, "c", payload{Name: "c"}, time.Minute)

	if ok, _ := mc.Exists(ctx, "a"); !ok {
		t.Fatalf("recently used key evicted")
	}
	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Fatalf("expected LRU key to be evicted")
	}
}

func TestGenerateAndHashKey(t *testing.T) {
	if got := GenerateKey("pbc", "abc"); got != "pbc:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	h1 := HashKey("payload-1")
	h2 := HashKey("payload-2")
	if h1 == h2 {
		t.Fatalf("distinct payloads must hash differently")
	}
	if len(h1) != 32 {
		t.Fatalf("unexpected hash length %d", len(h1))
	}
}
