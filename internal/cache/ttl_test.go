package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 20*time.Millisecond)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit with 1, got %d %v", v, ok)
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, string]()

	c.Set("k", "v", time.Minute)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected deleted entry to miss")
	}
}

func TestTTLCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("k", 1, 0)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected zero-TTL set to be dropped")
	}
}
