package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New()
	c.Set("id1", "текст", time.Minute)

	got, ok := c.Get("id1")
	if !ok || got != "текст" {
		t.Errorf("Get = %q, %v; want текст, true", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get for unknown key must miss")
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New()
	c.Set("id1", "текст", -time.Second)

	if _, ok := c.Get("id1"); ok {
		t.Error("expired entry must not be returned")
	}
}

func TestCleanupRemovesExpired(t *testing.T) {
	c := New()
	c.Set("old", "a", -time.Second)
	c.Set("fresh", "b", time.Minute)

	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.items["old"]; ok {
		t.Error("cleanup must drop expired entries")
	}
	if _, ok := c.items["fresh"]; !ok {
		t.Error("cleanup must keep live entries")
	}
}
