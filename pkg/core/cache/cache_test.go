package cache

import (
	"errors"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New[int](Config{MaxItems: 10, TTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss")
	}
	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}
}

func TestExpiry(t *testing.T) {
	c := New[string](Config{TTL: time.Second})
	defer c.Close()

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.Set("k", "v")

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestEviction(t *testing.T) {
	c := New[int](Config{MaxItems: 2, TTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestGetOrSet(t *testing.T) {
	c := New[int](Config{TTL: time.Minute})
	defer c.Close()

	calls := 0
	fn := func() (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 2; i++ {
		if v, err := c.GetOrSet("x", fn); err != nil || v != 42 {
			t.Fatalf("GetOrSet = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	wantErr := errors.New("boom")
	if _, err := c.GetOrSet("y", func() (int, error) { return 0, wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("err = %v", err)
	}
	if _, ok := c.Get("y"); ok {
		t.Error("failed computation must not be cached")
	}
}

func TestDigest(t *testing.T) {
	if Digest("a", "bc") == Digest("ab", "c") {
		t.Error("digest must separate parts")
	}
	if Digest("x") != Digest("x") {
		t.Error("digest must be stable")
	}
}
