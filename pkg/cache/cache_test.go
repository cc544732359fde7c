package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 1*time.Second)
	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 1*time.Second)
	c.Delete("key1")
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.Set("report:monthly:2024-03", "m1", 1*time.Second)
	c.Set("report:monthly:2024-04", "m2", 1*time.Second)
	c.Set("report:unpaid:2024-03", "u1", 1*time.Second)
	c.Invalidate("report:monthly:")
	_, ok1 := c.Get("report:monthly:2024-03")
	_, ok2 := c.Get("report:monthly:2024-04")
	_, ok3 := c.Get("report:unpaid:2024-03")
	if ok1 || ok2 {
		t.Fatalf("expected monthly report keys to be invalidated")
	}
	if !ok3 {
		t.Fatalf("expected unpaid report key to still exist")
	}
}
