package utils

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	cache, err := NewTTLCache(10)
	if err != nil {
		t.Fatalf("NewTTLCache failed: %v", err)
	}

	cache.Set("key", "value", time.Minute)
	if got := cache.Get("key"); got != "value" {
		t.Errorf("Expected value, got %v", got)
	}

	if got := cache.Get("missing"); got != nil {
		t.Errorf("Expected nil for missing key, got %v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, _ := NewTTLCache(10)

	cache.Set("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if got := cache.Get("key"); got != nil {
		t.Errorf("Expected expired entry to be gone, got %v", got)
	}
}

func TestCacheDelete(t *testing.T) {
	cache, _ := NewTTLCache(10)

	cache.Set("key", "value", time.Minute)
	cache.Delete("key")
	if got := cache.Get("key"); got != nil {
		t.Errorf("Expected deleted entry to be gone, got %v", got)
	}
}
