package hasher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/hupe1980/imagedup/codec"
	"github.com/hupe1980/imagedup/fingerprint"
)

// cacheEntry is the persisted form of one cached fingerprint. A hit
// requires the file's size and mtime as well as the hash type and size to
// match; anything else means the image or the configuration changed.
type cacheEntry struct {
	Words    []uint64 `json:"words"`
	Width    int      `json:"width"`
	Type     Type     `json:"type"`
	Size     int      `json:"size"`
	FileSize int64    `json:"file_size"`
	ModTime  int64    `json:"mod_time_unix_nano"`
}

// Cache is an optional on-disk fingerprint cache keyed by file path, so
// repeated runs over a large collection skip the decode+hash cost for
// unchanged files. Safe for concurrent use.
type Cache struct {
	path  string
	codec codec.Codec

	mu      sync.Mutex
	entries map[string]cacheEntry
	dirty   bool
}

// OpenCache loads the cache file at path, creating an empty cache when the
// file does not exist. A cache that fails to decode is discarded and
// replaced, never fatal.
func OpenCache(path string, c codec.Codec) (*Cache, error) {
	if c == nil {
		c = codec.Default
	}
	cache := &Cache{
		path:    path,
		codec:   c,
		entries: make(map[string]cacheEntry),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hasher: read cache %s: %w", path, err)
	}
	if err := c.Unmarshal(data, &cache.entries); err != nil {
		cache.entries = make(map[string]cacheEntry)
		cache.dirty = true
	}
	return cache, nil
}

// Len returns the number of cached fingerprints.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns the cached fingerprint for path if it is still valid for
// the given file state and hasher configuration.
func (c *Cache) Get(path string, info fs.FileInfo, typ Type, size int) (fingerprint.Fingerprint, bool) {
	c.mu.Lock()
	e, ok := c.entries[path]
	c.mu.Unlock()

	if !ok || e.Type != typ || e.Size != size ||
		e.FileSize != info.Size() || e.ModTime != info.ModTime().UnixNano() {
		return fingerprint.Fingerprint{}, false
	}

	fp, err := fingerprint.New(e.Words, e.Width)
	if err != nil {
		return fingerprint.Fingerprint{}, false
	}
	return fp, true
}

// Put records a freshly computed fingerprint.
func (c *Cache) Put(path string, info fs.FileInfo, typ Type, size int, fp fingerprint.Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = cacheEntry{
		Words:    fp.Words(),
		Width:    fp.Width(),
		Type:     typ,
		Size:     size,
		FileSize: info.Size(),
		ModTime:  info.ModTime().UnixNano(),
	}
	c.dirty = true
}

// Save writes the cache back to disk if anything changed since load.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	data, err := c.codec.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("hasher: encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("hasher: write cache %s: %w", c.path, err)
	}
	c.dirty = false
	return nil
}
