package calendar

import "sync"

// =============================================================================
// RESOLUTION CACHE - Optional (location, date) memoization
// =============================================================================

// resolutionCache memoizes successful classifications per location. Only
// clean results are cached; errors always re-resolve. Nested by location so
// a mutation invalidates exactly the affected location's entries and a
// later-declared holiday can never be shadowed by a stale WORKING_DAY.
type resolutionCache struct {
	mu      sync.RWMutex
	entries map[LocationID]map[string]Classification
}

func newResolutionCache() *resolutionCache {
	return &resolutionCache{entries: make(map[LocationID]map[string]Classification)}
}

func (c *resolutionCache) get(locationID LocationID, date Date) (Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	classification, ok := c.entries[locationID][date.String()]
	return classification, ok
}

func (c *resolutionCache) put(locationID LocationID, date Date, classification Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byDate, ok := c.entries[locationID]
	if !ok {
		byDate = make(map[string]Classification)
		c.entries[locationID] = byDate
	}
	byDate[date.String()] = classification
}

func (c *resolutionCache) invalidateLocation(locationID LocationID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, locationID)
}

func (c *resolutionCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[LocationID]map[string]Classification)
}
