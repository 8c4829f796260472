package channeltoken

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	cacheKey = "channel_access_token"
	// refreshMargin renews tokens this long before LINE expires them.
	refreshMargin = 5 * time.Minute
)

// Issuer issues channel access tokens.
type Issuer interface {
	Issue(ctx context.Context) (*IssuedToken, error)
}

// Cache provides issued channel access tokens, reusing them until shortly before expiry.
type Cache struct {
	cache  *cache.Cache
	issuer Issuer
	// mu serialises issuance so concurrent misses issue a single token.
	mu sync.Mutex
}

// NewCache creates a new token cache instance.
func NewCache(issuer Issuer) *Cache {
	return &Cache{
		cache:  cache.New(cache.NoExpiration, 10*time.Minute),
		issuer: issuer,
	}
}

// Token returns a valid channel access token, issuing a new one when needed.
func (c *Cache) Token(ctx context.Context) (string, error) {
	if token, found := c.cache.Get(cacheKey); found {
		return token.(string), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token, found := c.cache.Get(cacheKey); found {
		return token.(string), nil
	}

	issued, err := c.issuer.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue channel access token: %w", err)
	}
	if ttl := cacheTTL(issued.ExpiresIn); ttl > 0 {
		c.cache.Set(cacheKey, issued.AccessToken, ttl)
	}
	return issued.AccessToken, nil
}

// Invalidate drops the cached token, e.g. after LINE rejected it.
func (c *Cache) Invalidate() {
	c.cache.Delete(cacheKey)
}

// cacheTTL returns how long a token may be reused. Zero means it must not be cached.
func cacheTTL(expiresIn int64) time.Duration {
	lifetime := time.Duration(expiresIn) * time.Second
	switch {
	case lifetime > 2*refreshMargin:
		return lifetime - refreshMargin
	case lifetime > 0:
		return lifetime / 2
	default:
		return 0
	}
}
