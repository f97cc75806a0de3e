package driver

import (
	"context"
	"crypto/sha256"
	"testing"

	"rill/internal/diag"
	"rill/internal/source"
)

func testCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("rill-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	return cache
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache := testCache(t)
	key := sha256.Sum256([]byte(movedSrc))

	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.OwnUseAfterMove,
		source.Span{Start: 30, End: 31}, "use of moved value 's'").
		WithNote(source.Span{Start: 25, End: 27}, "value moved here"))

	if err := cache.Put(key, flattenBag("a.rl", key, bag)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var payload DiskPayload
	hit, err := cache.Get(key, &payload)
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v, want hit", hit, err)
	}
	if payload.Clean {
		t.Error("payload with errors must not be clean")
	}

	replayed := replayBag(&payload, source.FileID(3), 8)
	if replayed.Len() != 1 {
		t.Fatalf("replayed %d diagnostics, want 1", replayed.Len())
	}
	d := replayed.Items()[0]
	if d.Code != diag.OwnUseAfterMove || d.Primary.File != source.FileID(3) {
		t.Errorf("replayed diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "value moved here" {
		t.Errorf("replayed notes = %+v", d.Notes)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	cache := testCache(t)
	var payload DiskPayload
	hit, err := cache.Get(sha256.Sum256([]byte("unseen")), &payload)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected a miss for an unknown key")
	}
}

func TestCheckDirUsesCache(t *testing.T) {
	cache := testCache(t)
	dir := writeTree(t, map[string]string{"one.rl": cleanSrc})

	_, first, err := CheckDir(context.Background(), dir, DirOptions{Cache: cache})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if first[0].Cached {
		t.Error("first run must not be a cache hit")
	}

	_, second, err := CheckDir(context.Background(), dir, DirOptions{Cache: cache})
	if err != nil {
		t.Fatalf("CheckDir (cached): %v", err)
	}
	if !second[0].Cached {
		t.Error("second run must replay from the cache")
	}
	if second[0].Bag.HasErrors() {
		t.Errorf("cached result has errors: %v", second[0].Bag.Items())
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache := testCache(t)
	key := sha256.Sum256([]byte("x"))
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var payload DiskPayload
	hit, err := cache.Get(key, &payload)
	if hit {
		t.Error("cache should be empty after DropAll")
	}
	if err != nil {
		t.Fatalf("Get after DropAll: %v", err)
	}
}
