package inmemory

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	weddingdomain "wedding-app-go/internal/domain/wedding"
)

const weddingCacheCapacity = 10_000

// WeddingCache keeps the wedding resolved for an owner. Every authenticated
// request resolves one, so lookups must not reach the database each time.
type WeddingCache struct {
	cache *ttlcache.Cache[string, weddingdomain.Wedding]
}

func NewWeddingCache() *WeddingCache {
	return &WeddingCache{
		cache: ttlcache.New[string, weddingdomain.Wedding](
			// a hit must not extend the entry past the ttl it was stored with
			ttlcache.WithDisableTouchOnHit[string, weddingdomain.Wedding](),
			ttlcache.WithCapacity[string, weddingdomain.Wedding](weddingCacheCapacity),
		),
	}
}

func (c *WeddingCache) GetByOwner(ownerID string) (*weddingdomain.Wedding, bool) {
	item := c.cache.Get(ownerID)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return cloneWedding(item.Value()), true
}

func (c *WeddingCache) SetByOwner(ownerID string, wedding *weddingdomain.Wedding, ttl time.Duration) {
	if wedding == nil || ttl <= 0 {
		c.DeleteByOwner(ownerID)
		return
	}
	c.cache.Set(ownerID, *cloneWedding(*wedding), ttl)
}

func (c *WeddingCache) DeleteByOwner(ownerID string) {
	c.cache.Delete(ownerID)
}

func (c *WeddingCache) Clear() {
	c.cache.DeleteAll()
}

func cloneWedding(wedding weddingdomain.Wedding) *weddingdomain.Wedding {
	if wedding.Date != nil {
		date := *wedding.Date
		wedding.Date = &date
	}
	return &wedding
}
