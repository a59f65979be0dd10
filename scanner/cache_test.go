package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheReadFile(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "manifest.json")
	if err := os.WriteFile(p, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(4)
	b1, err := c.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != `{"a":1}` {
		t.Errorf("content = %q", b1)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	b2, err := c.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b2) != string(b1) {
		t.Errorf("cached read differs: %q vs %q", b2, b1)
	}

	// a size change makes a new key, so stale content is never served
	if err := os.WriteFile(p, []byte(`{"a":1,"b":2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	b3, err := c.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b3) != `{"a":1,"b":2}` {
		t.Errorf("stale content served: %q", b3)
	}
}

func TestCacheNilReadsThrough(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "f.txt")
	if err := os.WriteFile(p, []byte("ok"), 0o644); err != nil {
		t.Fatal(err)
	}
	var c *Cache
	b, err := c.ReadFile(p)
	if err != nil || string(b) != "ok" {
		t.Errorf("nil cache read = %q, %v", b, err)
	}
	if c.Len() != 0 {
		t.Errorf("nil cache Len = %d", c.Len())
	}
}
