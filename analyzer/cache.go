package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"

	"github.com/replicalint/replicalint/analyzer/replica"
)

// cacheKey seeds the content fingerprint. Changing it invalidates every
// existing cache file.
var cacheKey = []byte("a7f3b2c914e8d605a7f3b2c914e8d605")

// cacheEntry stores the outcome of one file's analysis keyed by content
// fingerprint.
type cacheEntry struct {
	Fingerprint uint64                   `json:"fingerprint"`
	Issues      []replica.Issue          `json:"issues"`
	Clients     []replica.ClientInstance `json:"clients"`
}

// Cache persists per-file scan results between runs so files whose content
// has not changed are not re-parsed.
type Cache struct {
	fs      afs.Service
	path    string
	entries map[string]cacheEntry
	dirty   bool
}

// OpenCache loads the cache stored at path, starting empty when the file is
// absent or corrupt.
func OpenCache(ctx context.Context, path string) *Cache {
	result := &Cache{fs: afs.New(), path: path, entries: map[string]cacheEntry{}}
	data, err := result.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return result
	}
	if err := json.Unmarshal(data, &result.entries); err != nil {
		result.entries = map[string]cacheEntry{}
	}
	return result
}

// Lookup returns the cached results for a file when its stored fingerprint
// matches the given content.
func (c *Cache) Lookup(location string, src []byte) ([]replica.Issue, []replica.ClientInstance, bool) {
	entry, ok := c.entries[location]
	if !ok || entry.Fingerprint != fingerprint(src) {
		return nil, nil, false
	}
	return entry.Issues, entry.Clients, true
}

// Store records the analysis results for a file's current content.
func (c *Cache) Store(location string, src []byte, issues []replica.Issue, clients []replica.ClientInstance) {
	c.entries[location] = cacheEntry{Fingerprint: fingerprint(src), Issues: issues, Clients: clients}
	c.dirty = true
}

// Save writes the cache back to its file when anything changed since load.
func (c *Cache) Save(ctx context.Context) error {
	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := c.fs.Upload(ctx, c.path, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", c.path, err)
	}
	c.dirty = false
	return nil
}

// fingerprint hashes file content for cache validation.
func fingerprint(src []byte) uint64 {
	return highwayhash.Sum64(src, cacheKey)
}
