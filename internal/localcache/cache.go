package localcache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// keyPrefix namespaces our slots from anything else sharing the
// cache directory.
const keyPrefix = "medstock_"

// Cache is a JSON key/value store backed by one file per key. It is the
// last-known-good mirror used for offline bootstrap; no TTL, no
// eviction, no size bound.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	// Keys are collection names; keep the file name flat.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(c.dir, keyPrefix+safe+".json")
}

// Get deserializes the stored value for key into out and reports whether
// a usable value was found. A missing slot or unparseable content is
// treated as absent; the caller keeps its default. Never returns an
// error to the caller.
func (c *Cache) Get(key string, out interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[LocalCache] Discarding unparseable value for %s: %v", key, err)
		return false
	}
	return true
}

// Set serializes value and overwrites the slot unconditionally. Failures
// are logged and swallowed; the cache is a mirror, not a system of
// record.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[LocalCache] Failed to serialize %s: %v", key, err)
		return
	}
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("[LocalCache] Failed to write %s: %v", key, err)
		return
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		log.Printf("[LocalCache] Failed to replace %s: %v", key, err)
	}
}
