package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkwell/inkwell/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for resolved identities.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL is the time-to-live for cached identities.
	// Kept well under the token lifetime so revoked users age out quickly.
	identityCacheTTL = 5 * time.Minute
)

// cachedIdentity is the Redis representation of a resolved identity.
type cachedIdentity struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GetIdentity retrieves a cached identity by cache key (hash of the token).
// Returns nil on a cache miss.
func (c *Cache) GetIdentity(ctx context.Context, cacheKey string) (*model.Identity, error) {
	key := identityCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.Identity{
		UserID:    cached.UserID,
		FirstName: cached.FirstName,
		LastName:  cached.LastName,
	}, nil
}

// SetIdentity caches a resolved identity.
func (c *Cache) SetIdentity(ctx context.Context, cacheKey string, ident *model.Identity) error {
	key := identityCachePrefix + cacheKey

	cached := cachedIdentity{
		UserID:    ident.UserID,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity.
func (c *Cache) DeleteIdentity(ctx context.Context, cacheKey string) error {
	key := identityCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}
