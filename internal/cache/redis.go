package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort key/value cache. A miss is reported as an empty
// value with a nil error; callers fall back to the system of record.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(kind, id string) string
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache connects a cache backed by the given redis address.
func NewRedisCache(addr, password string) Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return value, nil
}

func (r *redisCache) GenerateKey(kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}
