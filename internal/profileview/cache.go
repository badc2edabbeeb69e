package profileview

import (
	"fmt"
	"sync"

	"tasklink/internal/models"
)

// CacheKeyPrefix prefixes every cached profile entry.
const CacheKeyPrefix = "tasklink_company_profile_"

// CacheKey returns the cache key for one company account.
func CacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", CacheKeyPrefix, userID)
}

// Cache is an in-memory read-through store of committed profiles. It is
// never written to the server.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.Company
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]models.Company)}
}

// Get returns a copy of the cached profile for userID.
func (c *Cache) Get(userID uint) (models.Company, bool) {
	if c == nil {
		return models.Company{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[CacheKey(userID)]
	return p, ok
}

func (c *Cache) Put(p models.Company) {
	if c == nil || p.UserID == 0 {
		return
	}
	p.User = nil
	c.mu.Lock()
	c.entries[CacheKey(p.UserID)] = p
	c.mu.Unlock()
}

func (c *Cache) Delete(userID uint) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, CacheKey(userID))
	c.mu.Unlock()
}
