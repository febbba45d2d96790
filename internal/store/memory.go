package store

import (
	"sync"
	"time"

	"github.com/i474232898/mars-weather/internal/mars"
	"github.com/i474232898/mars-weather/internal/weather"
)

// SolCache is a concurrency-safe in-memory cache of readings keyed by sol.
// It holds exactly one snapshot, which is only ever replaced as a whole.
type SolCache struct {
	mu sync.RWMutex

	// current generation; never mutated after it is installed
	current *weather.Snapshot

	now func() time.Time
}

// NewSolCache creates an empty SolCache.
func NewSolCache() *SolCache {
	return &SolCache{now: time.Now}
}

// Replace installs readings as the new snapshot, stamped with the current time.
// The copy is built before the write lock is taken, so readers are only
// excluded for the pointer swap.
func (c *SolCache) Replace(readings map[mars.Sol]weather.Reading) {
	next := weather.NewSnapshot(readings, c.now().UTC())

	c.mu.Lock()
	c.current = next
	c.mu.Unlock()
}

// Snapshot returns the current generation, or nil before the first Replace.
// A nil *weather.Snapshot behaves as an empty one.
func (c *SolCache) Snapshot() *weather.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Get returns a copy of the reading for sol from the current snapshot.
func (c *SolCache) Get(sol mars.Sol) (weather.Reading, bool) {
	return c.Snapshot().Get(sol)
}

// UpdatedAt returns when the current snapshot was installed.
func (c *SolCache) UpdatedAt() time.Time {
	return c.Snapshot().UpdatedAt()
}

// Len returns the number of sols in the current snapshot.
func (c *SolCache) Len() int {
	return c.Snapshot().Len()
}
