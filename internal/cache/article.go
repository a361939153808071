package cache

import (
	"context"
	"time"
)

const (
	// articleMissingPrefix is the Redis key prefix for the negative cache
	// of article IDs known to be absent.
	articleMissingPrefix = "article:missing:"
	// articleMissingTTL bounds how long an absent ID is remembered.
	// Article IDs are never reused, so a short TTL is purely a size cap.
	articleMissingTTL = 60 * time.Second
)

// SetArticleMissing records that an article ID does not exist, short-cutting
// repeat fetches of dead IDs on the public read path.
func (c *Cache) SetArticleMissing(ctx context.Context, id string) error {
	return c.client.Set(ctx, articleMissingPrefix+id, "1", articleMissingTTL).Err()
}

// IsArticleMissing checks the negative cache for an article ID.
func (c *Cache) IsArticleMissing(ctx context.Context, id string) (bool, error) {
	n, err := c.client.Exists(ctx, articleMissingPrefix+id).Result()
	if err != nil {
		// Fail open on Redis errors - the store remains authoritative
		return false, nil //nolint:nilerr
	}
	return n > 0, nil
}
