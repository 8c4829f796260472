package eventcache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DeliveryCache remembers webhook event ids for a fixed window so redelivered
// events are relayed only once.
type DeliveryCache struct {
	cache *cache.Cache
}

// NewDeliveryCache creates a DeliveryCache that forgets ids after ttl.
func NewDeliveryCache(ttl time.Duration) *DeliveryCache {
	return &DeliveryCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

// MarkSeen records eventID and reports whether this is the first time it was seen.
func (d *DeliveryCache) MarkSeen(eventID string) bool {
	// Add fails if the key already exists and has not expired.
	return d.cache.Add(eventID, struct{}{}, cache.DefaultExpiration) == nil
}

// Forget drops eventID so the next delivery is accepted again.
func (d *DeliveryCache) Forget(eventID string) {
	d.cache.Delete(eventID)
}
