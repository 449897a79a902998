package redis

import (
	"context"
	"errors"
	"time"

	"filesmanager/core"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
}

// NewCache creates a Redis-backed session cache. Expiry is delegated
// to Redis key TTLs.
func NewCache(addr string) *redisCache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &redisCache{client: client}
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
