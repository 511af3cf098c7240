package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/realestate-crm/internal/core/ports"
)

// UserCacheNamespace prefixes the read-through user entries.
const UserCacheNamespace = "crm_cache"

var _ ports.Cache = (*Cache)(nil)

// Cache stores opaque values under a namespace so cache keys never collide
// with the token, reset and rate limit keys sharing the same database.
type Cache struct {
	rdb       redis.Cmdable
	namespace string
}

func NewCache(rdb redis.Cmdable, namespace string) *Cache {
	return &Cache{rdb: rdb, namespace: strings.TrimSuffix(namespace, ":")}
}

func (c *Cache) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set with a non-positive ttl keeps the entry until it is deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(key), value, max(ttl, 0)).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.key(key)).Err()
}
