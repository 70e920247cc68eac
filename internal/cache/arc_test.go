package cache

import "testing"

func TestNewLRUInvalidSize(t *testing.T) {
	t.Parallel()

	if _, err := NewLRU(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestLRU(t *testing.T) {
	t.Parallel()

	c, err := NewLRU(2)
	if err != nil {
		t.Fatalf("new lru: %v", err)
	}

	c.Add("a", 1)
	c.Add("b", 2)

	if v, ok := c.Get("a"); !ok || v.(int) != 1 {
		t.Errorf("expected a=1, got %v %v", v, ok)
	}

	c.Add("c", 3)
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a must be deleted")
	}

	if len(c.Keys()) != c.Len() {
		t.Errorf("keys %v do not match len %d", c.Keys(), c.Len())
	}
}
