package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shortenerproject/shortener/internal/model"
)

const authCachePrefix = "shortener:auth:"

func authKey(cacheKey string) string {
	return authCachePrefix + cacheKey
}

// GetAuthContext returns the cached caller for cacheKey. A miss or a
// corrupt entry yields (nil, nil); only transport failures are errors.
func (c *Cache) GetAuthContext(ctx context.Context, cacheKey string) (*model.AuthContext, error) {
	data, err := c.client.Get(ctx, authKey(cacheKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get auth context: %w", err)
	}

	var authCtx model.AuthContext
	if err := json.Unmarshal(data, &authCtx); err != nil {
		return nil, nil //nolint:nilerr // corrupt entry is a miss
	}
	return &authCtx, nil
}

// SetAuthContext caches a verified caller for the configured TTL.
func (c *Cache) SetAuthContext(ctx context.Context, cacheKey string, authCtx *model.AuthContext) error {
	data, err := json.Marshal(authCtx)
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}
	return c.client.Set(ctx, authKey(cacheKey), data, c.authTTL).Err()
}

// DeleteAuthContext removes a cached caller.
func (c *Cache) DeleteAuthContext(ctx context.Context, cacheKey string) error {
	return c.client.Del(ctx, authKey(cacheKey)).Err()
}
