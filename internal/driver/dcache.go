package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"rill/internal/diag"
	"rill/internal/source"
)

// Digest identifies file content.
type Digest = [sha256.Size]byte

// Bump when the DiskPayload format changes; stale entries are ignored.
const diskCacheSchemaVersion uint16 = 1

// DiskCache memoizes per-file check outcomes keyed by content hash.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote mirrors diag.Note with spans flattened to byte offsets.
type CachedNote struct {
	Message   string
	StartByte uint32
	EndByte   uint32
}

// CachedDiagnostic is one flattened diagnostic. Spans are stored as byte
// offsets only; the FileID is re-bound when the entry is replayed.
type CachedDiagnostic struct {
	Severity  uint8
	Code      uint16
	Message   string
	StartByte uint32
	EndByte   uint32
	Notes     []CachedNote
}

// DiskPayload stores one file's check outcome.
type DiskPayload struct {
	Schema      uint16
	Path        string
	ContentHash Digest
	// Clean is true when the file checked without errors.
	Clean       bool
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache initializes a disk cache at the standard location
// (XDG_CACHE_HOME or ~/.cache, under the given app name).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "checks", hexKey+".mp")
}

// Put serializes a payload and replaces any previous entry atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry. A missing entry or a schema mismatch reads as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// flattenBag converts a bag into a cacheable payload.
func flattenBag(path string, hash Digest, bag *diag.Bag) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		ContentHash: hash,
		Clean:       !bag.HasErrors(),
	}
	for _, d := range bag.Items() {
		cached := CachedDiagnostic{
			Severity:  uint8(d.Severity),
			Code:      uint16(d.Code),
			Message:   d.Message,
			StartByte: d.Primary.Start,
			EndByte:   d.Primary.End,
		}
		for _, n := range d.Notes {
			cached.Notes = append(cached.Notes, CachedNote{
				Message:   n.Msg,
				StartByte: n.Span.Start,
				EndByte:   n.Span.End,
			})
		}
		payload.Diagnostics = append(payload.Diagnostics, cached)
	}
	return payload
}

// replayBag rebuilds a bag from a cached payload, binding spans to fileID.
func replayBag(payload *DiskPayload, fileID source.FileID, maxDiags int) *diag.Bag {
	bag := diag.NewBag(maxDiags)
	for _, cached := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cached.Severity),
			Code:     diag.Code(cached.Code),
			Message:  cached.Message,
			Primary:  source.Span{File: fileID, Start: cached.StartByte, End: cached.EndByte},
		}
		for _, n := range cached.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Msg:  n.Message,
				Span: source.Span{File: fileID, Start: n.StartByte, End: n.EndByte},
			})
		}
		bag.Add(d)
	}
	return bag
}
