package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"trends-gateway/internal/domain"
)

// Redis is a Store backed by a shared Redis instance, so concurrent gateway
// instances see each other's cached tokens.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Store on an existing Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Lookup returns the cached value for key. A missing key is a plain miss;
// any other failure is reported as a CacheError for the caller to log.
func (r *Redis) Lookup(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.ErrCache("redis get %s: %v", key, err)
	}
	return value, true, nil
}

// Insert stores value under key with the given TTL.
func (r *Redis) Insert(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return domain.ErrCache("redis set %s: %v", key, err)
	}
	return nil
}
