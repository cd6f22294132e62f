package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("en", "Page A", "Page B", "cs")
	b := Fingerprint("en", "Page A", "Page B", "cs")
	if a != b {
		t.Errorf("expected identical fingerprints, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
		t.Error("expected part boundaries to change the fingerprint")
	}
}

func TestKey_BoundedLength(t *testing.T) {
	long := strings.Repeat("Very long article title ", 500)
	key := Key("en", "cs", long)
	if !strings.HasPrefix(key, "en-") || !strings.HasSuffix(key, "-cs") {
		t.Errorf("unexpected key layout: %s", key)
	}
	if len(key) > maxKeyLength {
		t.Errorf("key too long: %d", len(key))
	}
}

func TestDiskCache_SetGet(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "cache"), 0)

	if _, found := c.Get("missing"); found {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set("en-abc-cs", []byte(`{"query":{}}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("en-abc-cs")
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(got) != `{"query":{}}` {
		t.Errorf("unexpected value: %s", got)
	}

	if _, err := os.Stat(filepath.Join(c.Dir(), "en-abc-cs.json")); err != nil {
		t.Errorf("expected one JSON file per key: %v", err)
	}
}

func TestDiskCache_UnsafeKeys(t *testing.T) {
	c := NewDiskCache(t.TempDir(), 0)

	for _, key := range []string{"", "a/b", `a\b`, "..", strings.Repeat("x", maxKeyLength+1)} {
		err := c.Set(key, []byte("{}"), 0)
		if !errors.Is(err, ErrUnsafeKey) {
			t.Errorf("Set(%q): expected ErrUnsafeKey, got %v", key, err)
		}
		if _, found := c.Get(key); found {
			t.Errorf("Get(%q): expected miss", key)
		}
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("old", []byte("{}"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.json"), past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	if _, found := c.Get("old"); found {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "old.json")); !os.IsNotExist(err) {
		t.Error("expected expired entry to be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	if err := NewDiskCache(dir, 0).Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, 0)
	if got, found := c.Get("k"); !found || string(got) != "v" {
		t.Fatalf("expected disk hit, got %q %v", got, found)
	}

	mem := c.memory.(*MemoryCache)
	if mem.Len() != 1 {
		t.Errorf("expected value promoted to memory, got %d items", mem.Len())
	}
}

func TestLayeredCache_KeepsMemoryCopyOnDiskFailure(t *testing.T) {
	// A regular file where the cache directory should be makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	c := NewLayeredCache(time.Minute, blocker, 0)
	if err := c.Set("k", []byte("v"), 0); err == nil {
		t.Fatal("expected disk error")
	}
	if _, found := c.Get("k"); !found {
		t.Error("expected memory hit after failed disk write")
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Nop cache must never hit")
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	value := []byte(`{"query":{}}`)
	if err := c.Set("k", value, 0); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, _ := c.Get("k")
	if string(got) != `{"query":{}}` {
		t.Errorf("caller mutation leaked into the cache: %s", got)
	}
	got[0] = 'Y'
	if again, _ := c.Get("k"); string(again) != `{"query":{}}` {
		t.Errorf("reader mutation leaked into the cache: %s", again)
	}
}

func TestDiskCache_DeleteMissingIsNoError(t *testing.T) {
	c := NewDiskCache(t.TempDir(), 0)
	if err := c.Delete("never-stored"); err != nil {
		t.Errorf("expected nil for a missing entry, got %v", err)
	}
}

func TestDiskCache_ClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, 0)
	for _, key := range []string{"a", "b"} {
		if err := c.Set(key, []byte("{}"), 0); err != nil {
			t.Fatal(err)
		}
	}
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if _, err := os.Stat(notes); err != nil {
		t.Errorf("Clear removed an unrelated file: %v", err)
	}
	if err := NewDiskCache(filepath.Join(dir, "absent"), 0).Clear(); err != nil {
		t.Errorf("Clear of a missing dir: %v", err)
	}
}

func TestLayeredCache_DeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, 0)
	for _, key := range []string{"a", "b"} {
		if err := c.Set(key, []byte("{}"), 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected miss after Delete")
	}
	if _, found := c.Get("b"); !found {
		t.Error("Delete removed the wrong key")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("b"); found {
		t.Error("expected miss after Clear")
	}
	if n := NewDiskCache(dir, 0).Len(); n != 0 {
		t.Errorf("expected no files on disk, got %d", n)
	}
}

func TestLayeredCache_DiskTTL(t *testing.T) {
	dir := t.TempDir()
	if err := NewDiskCache(dir, 0).Set("old", []byte("{}"), 0); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.json"), past, past); err != nil {
		t.Fatal(err)
	}

	if _, found := NewLayeredCache(time.Minute, dir, 0).Get("old"); !found {
		t.Error("expected hit without a disk ttl")
	}
	if _, found := NewLayeredCache(time.Minute, dir, 24*time.Hour).Get("old"); found {
		t.Error("expected entry older than the disk ttl to miss")
	}
}
