package httputil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	if err := c.Set("https://example.com/logo.png", payload); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got []byte
	ok, err := c.Get("https://example.com/logo.png", &got)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %v, want %v", got, payload)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result []byte
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var res string
	ok, err := c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_NoTTL(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	_ = c.Set("key", "value")
	old := time.Now().Add(-1000 * time.Hour)
	_ = os.Chtimes(c.keyPath("key"), old, old)

	var res string
	if ok, err := c.Get("key", &res); !ok || err != nil {
		t.Errorf("Get() = %v, %v; zero TTL entries never expire", ok, err)
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if c.keyPath("a") != c.keyPath("a") {
		t.Error("path should be deterministic")
	}
	if c.keyPath("a") == c.keyPath("b") {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	want := filepath.Join(home, ".cache", "treecharts", "http")
	if c.Dir() != want {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	t.Run("isolated", func(t *testing.T) {
		img := c.Namespace("img:")
		meta := c.Namespace("meta:")
		_ = img.Set("u", "image")
		_ = meta.Set("u", "metadata")

		var a, b string
		_, _ = img.Get("u", &a)
		_, _ = meta.Get("u", &b)
		if a != "image" || b != "metadata" {
			t.Errorf("got %q / %q", a, b)
		}
	})

	t.Run("chained", func(t *testing.T) {
		outer := c.Namespace("img:")
		inner := outer.Namespace("v2:")
		_ = inner.Set("k", "value")

		var res string
		if found, _ := outer.Get("k", &res); found {
			t.Error("value accessible without full namespace chain")
		}
		if ok, _ := c.Get("img:v2:k", &res); !ok || res != "value" {
			t.Error("chained prefix should equal concatenation")
		}
	})
}

func TestCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewCache(dir, time.Hour)
	_ = c.Set("a", 1)
	_ = c.Namespace("img:").Set("b", 2)

	n, err := c.Clear()
	if err != nil || n != 2 {
		t.Fatalf("Clear() = %d, %v; want 2, nil", n, err)
	}
	if ok, _ := c.Namespace("img:").Get("b", new(int)); ok {
		t.Error("namespaced entry survived Clear")
	}

	gone := &Cache{dir: filepath.Join(dir, "missing")}
	if n, err := gone.Clear(); n != 0 || err != nil {
		t.Errorf("Clear() on missing dir = %d, %v; want 0, nil", n, err)
	}
}

func TestCache_SetLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewCache(dir, 0)
	for i := range 3 {
		if err := c.Set("k", i); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("cache dir has %d files, want 1", len(entries))
	}
}
