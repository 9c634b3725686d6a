package monitor

import (
	"sync"

	"github.com/user/devwatch/internal/model"
)

// StatusCache is the in-memory last-known-result store feeding the
// presentation layer. The monitoring loop is its only writer; readers never
// block it beyond the map critical section.
type StatusCache struct {
	mu      sync.RWMutex
	results map[int64]model.ProbeResult
}

// NewStatusCache creates an empty status cache.
func NewStatusCache() *StatusCache {
	return &StatusCache{results: make(map[int64]model.ProbeResult)}
}

// Get returns the last result for a device. ok is false when the device has
// not been probed yet.
func (c *StatusCache) Get(deviceID int64) (model.ProbeResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[deviceID]
	return r, ok
}

// Set records the latest result for a device.
func (c *StatusCache) Set(deviceID int64, result model.ProbeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[deviceID] = result
}

// Snapshot returns a copy of every cached result, safe to render from.
func (c *StatusCache) Snapshot() map[int64]model.ProbeResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int64]model.ProbeResult, len(c.results))
	for id, r := range c.results {
		out[id] = r
	}
	return out
}

// Forget drops a device from the cache, e.g. after deletion.
func (c *StatusCache) Forget(deviceID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, deviceID)
}

// Len returns the number of cached results.
func (c *StatusCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
