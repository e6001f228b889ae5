package cache

import (
	"time"

	storedomain "github.com/khasm-app/khasm/internal/store/domain"
)

const (
	storeGroupKey = "store_groups"

	defaultStoreGroupTTL = 30 * time.Second
)

// StoreGroupCache keeps the grouped store listing for the card page. The
// listing is read on every card render and changes only when an admin
// edits the catalog.
type StoreGroupCache struct {
	groups Cache[string, []storedomain.PlaceGroup]
	ttl    time.Duration
}

func NewStoreGroupCache() *StoreGroupCache {
	return &StoreGroupCache{
		groups: NewTTLCache[string, []storedomain.PlaceGroup](),
		ttl:    defaultStoreGroupTTL,
	}
}

func (c *StoreGroupCache) Get() ([]storedomain.PlaceGroup, bool) {
	return c.groups.Get(storeGroupKey)
}

func (c *StoreGroupCache) Set(groups []storedomain.PlaceGroup) {
	if groups == nil {
		return
	}
	c.groups.Set(storeGroupKey, groups, c.ttl)
}

// Invalidate drops the cached listing. Called after catalog mutations.
func (c *StoreGroupCache) Invalidate() {
	c.groups.Delete(storeGroupKey)
}
