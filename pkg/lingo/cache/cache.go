// Package cache provides an optional short-TTL cache for leaf evaluation
// results, built as an instance-based client rather than a package-level
// one: the engine must be re-entrant, and a package-level *redis.Client
// would share state across every host running more than one Manager/Lingo
// pair.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis.Client for caching condition-leaf evaluation results,
// keyed by the caller (typically a digest of the leaf + resolved context).
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New dials url (honoring an explicit password override) and pings it
// before returning, within a bounded timeout.
func New(url, password string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an already-constructed client, used by tests to
// inject a miniredis-backed client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached string for key, and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key with the Cache's configured TTL.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

// Del removes key.
func (c *Cache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
