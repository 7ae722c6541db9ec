package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// ReferenceCache handles persisting and loading decoded dumps to/from disk.
type ReferenceCache struct {
	CacheDir string
}

// NewReferenceCache creates a new cache manager.
func NewReferenceCache(cacheDir string) *ReferenceCache {
	return &ReferenceCache{CacheDir: cacheDir}
}

// CachedReference represents the serializable decoded dump.
type CachedReference struct {
	Name      string
	Hash      string // sha256 of the dump the reference was decoded from
	Reference types.RawReference
}

// Save writes the decoded dump to disk.
func (c *ReferenceCache) Save(name string, data *CachedReference) error {
	if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	path := c.cachePath(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	return nil
}

// Load reads a decoded dump from disk.
func (c *ReferenceCache) Load(name string) (*CachedReference, error) {
	path := c.cachePath(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	var data CachedReference
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}

	return &data, nil
}

// LoadFresh returns the cached dump for name only if it was decoded from
// content with the given hash.
func (c *ReferenceCache) LoadFresh(name, hash string) (*CachedReference, bool) {
	data, err := c.Load(name)
	if err != nil || data.Hash != hash {
		return nil, false
	}
	return data, true
}

// Exists returns true if a cache file exists for name.
func (c *ReferenceCache) Exists(name string) bool {
	_, err := os.Stat(c.cachePath(name))
	return err == nil
}

// Delete removes the cache file for name.
func (c *ReferenceCache) Delete(name string) error {
	return os.Remove(c.cachePath(name))
}

func (c *ReferenceCache) cachePath(name string) string {
	return filepath.Join(c.CacheDir, name+".gob")
}
