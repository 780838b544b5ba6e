package model

import (
	"time"

	"github.com/s3nav/s3nav/preview"
)

// previewEntry is "Preview entry": a streaming preview handle
// (or an unsupported-type marker carrying only the object's size) plus the
// bookkeeping the cache needs for LRU eviction.
type previewEntry struct {
	bucket, key string
	handle *preview.StreamingPreview
	encoding preview.Encoding
	declaredSize int64
	lastAccessed time.Time

	unsupported bool
	sizeOnly int64

	byteContent []byte // set for a bounded GetObject peek not backed by a StreamingPreview
}

// previewCache is the model's LRU-capped preview cache
// "Preview entry... LRU bound: ≤ N entries; selected entry never evicted."
type previewCache struct {
	entries map[string]*previewEntry
	maxSize int
	selectedKey string
}

func newPreviewCache(maxSize int) *previewCache {
	return &previewCache{
 entries: make(map[string]*previewEntry),
 maxSize: maxSize,
	}
}

func previewCacheKey(bucket, key string) string {
	return bucket + "/" + key
}

func (c *previewCache) setSelected(bucket, key string) {
	c.selectedKey = previewCacheKey(bucket, key)
}

func (c *previewCache) get(bucket, key string) (*previewEntry, bool) {
	e, ok := c.entries[previewCacheKey(bucket, key)]
	return e, ok
}

// put inserts or replaces the entry for (bucket, key), touches its access
// time, and evicts if the cache is now over its bound.
func (c *previewCache) put(bucket, key string, entry *previewEntry) {
	entry.bucket, entry.key = bucket, key
	entry.lastAccessed = time.Now()
	c.entries[previewCacheKey(bucket, key)] = entry
	c.evictIfNeeded()
}

// touch refreshes an existing entry's access time, e.g. on reselect.
func (c *previewCache) touch(bucket, key string) {
	if e, ok := c.get(bucket, key); ok {
 e.lastAccessed = time.Now()
	}
}

// evictIfNeeded removes the oldest-accessed entry repeatedly until the
// cache is at or under its bound, never evicting the selected key — spec.md
// §4.4 "Preview cache eviction". An in-progress scratch file is protected
// the same way: the selection guard covers it, since the model always
// marks the actively-downloading key as selected.
func (c *previewCache) evictIfNeeded() {
	for len(c.entries) > c.maxSize {
 var oldestKey string
 var oldestTime time.Time
 found := false
 for k, e := range c.entries {
 if k == c.selectedKey {
 continue
 }
 if !found || e.lastAccessed.Before(oldestTime) {
 oldestKey = k
 oldestTime = e.lastAccessed
 found = true
 }
 }
 if !found {
 return
 }
 if entry := c.entries[oldestKey]; entry.handle != nil {
 entry.handle.Close()
 }
 delete(c.entries, oldestKey)
	}
}

func (c *previewCache) clear() {
	for _, e := range c.entries {
 if e.handle != nil {
 e.handle.Close()
 }
	}
	c.entries = make(map[string]*previewEntry)
	c.selectedKey = ""
}

func (c *previewCache) size() int {
	return len(c.entries)
}
