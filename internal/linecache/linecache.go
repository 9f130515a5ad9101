// Package linecache keys expensive per-line content transforms by line
// content so unrelated re-renders reuse prior results. Only the
// identifier plumbing lives here: entries bind a content hash to a
// transform result and the line identifier it is currently attached
// to. Executing the transforms themselves is the consumer's business.
package linecache

import (
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/zeebo/blake3"
)

// Default cache retention.
const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Entry is one cached transform result.
type Entry struct {
	// Rendered is the transform output for the line content.
	Rendered string

	// LineID is the identifier the entry is currently bound to. It is
	// refreshed on every Rebind; the content key never changes.
	LineID string
}

// Cache is a TTL cache of per-line transform results keyed by content
// hash.
type Cache struct {
	cache *gocache.Cache
}

// New creates a cache with the given expiration and cleanup interval.
// Zero durations select the package defaults.
func New(expiration, cleanupInterval time.Duration) *Cache {
	if expiration == 0 {
		expiration = DefaultExpiration
	}
	if cleanupInterval == 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Cache{cache: gocache.New(expiration, cleanupInterval)}
}

// Key hashes line content into a cache key.
func Key(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry for the given line content.
func (c *Cache) Get(content string) (Entry, bool) {
	value, found := c.cache.Get(Key(content))
	if !found {
		return Entry{}, false
	}
	entry, ok := value.(Entry)
	if !ok {
		return Entry{}, false
	}
	return entry, true
}

// Put stores a transform result for the given line content, bound to
// the given identifier.
func (c *Cache) Put(content, rendered, lineID string) {
	c.cache.SetDefault(Key(content), Entry{Rendered: rendered, LineID: lineID})
}

// Invalidate drops the entry for the given line content.
func (c *Cache) Invalidate(content string) {
	c.cache.Delete(Key(content))
}

// Rebind reattaches cached entries to the identifiers of a fresh pass.
// lineMap maps absolute lines to newly minted identifiers; lineContent
// maps the same lines to their source content. Lines whose content is
// unchanged keep their cached result under the new identifier; changed
// lines miss and will be recomputed by the consumer. Returns the
// number of entries rebound.
func (c *Cache) Rebind(lineMap map[int]string, lineContent map[int]string) int {
	hits := 0
	for line, id := range lineMap {
		content, ok := lineContent[line]
		if !ok {
			continue
		}
		entry, ok := c.Get(content)
		if !ok {
			continue
		}
		c.Put(content, entry.Rendered, id)
		hits++
	}
	return hits
}
