package inkwell

import (
	"path/filepath"
	"testing"
)

func setupTestCache(t *testing.T) *RenderCache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.db")
	c, err := OpenRenderCache(path)
	if err != nil {
		t.Fatalf("failed to open render cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRenderCacheSaveAndLookup(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Save("hello", "abc123", "<p>hi</p>"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	html, err := c.Lookup("hello", "abc123")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if html != "<p>hi</p>" {
		t.Errorf("html = %q, want %q", html, "<p>hi</p>")
	}
}

func TestRenderCacheMissOnUnknownSlug(t *testing.T) {
	c := setupTestCache(t)

	if _, err := c.Lookup("nope", "abc"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenderCacheMissOnChangedChecksum(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Save("hello", "abc123", "<p>old</p>"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := c.Lookup("hello", "def456"); !IsNotFound(err) {
		t.Fatalf("edited source should be a cache miss, got %v", err)
	}
}

func TestRenderCacheSaveReplaces(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Save("hello", "v1", "<p>one</p>"); err != nil {
		t.Fatal(err)
	}
	if err := c.Save("hello", "v2", "<p>two</p>"); err != nil {
		t.Fatal(err)
	}
	html, err := c.Lookup("hello", "v2")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if html != "<p>two</p>" {
		t.Errorf("html = %q, want replacement render", html)
	}
	if _, err := c.Lookup("hello", "v1"); !IsNotFound(err) {
		t.Errorf("stale render should be gone, got %v", err)
	}
}

func TestRenderCachePrune(t *testing.T) {
	c := setupTestCache(t)

	for _, slug := range []string{"keep", "drop-a", "drop-b"} {
		if err := c.Save(slug, "x", "<p></p>"); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Prune(map[string]struct{}{"keep": {}})
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d rows, want 2", n)
	}
	if _, err := c.Lookup("keep", "x"); err != nil {
		t.Errorf("kept slug should survive prune: %v", err)
	}
	if _, err := c.Lookup("drop-a", "x"); !IsNotFound(err) {
		t.Errorf("pruned slug should be gone, got %v", err)
	}
}
