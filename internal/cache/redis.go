package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/hybridauth/internal/core"

	"github.com/redis/go-redis/v9"
)

var _ core.Cache[struct{}] = (*RedisCache[struct{}])(nil)

// RedisCache stores JSON-encoded values in Redis under a key prefix.
// Safe to share between instances.
type RedisCache[T any] struct {
	client    redis.UniversalClient
	keyPrefix string
	ownClient bool
}

// NewRedisCache wraps an existing client. Close leaves the client open.
func NewRedisCache[T any](client redis.UniversalClient, keyPrefix string) *RedisCache[T] {
	return &RedisCache[T]{client: client, keyPrefix: keyPrefix}
}

// DialRedisCache connects to addr and verifies the connection.
// Close shuts the client down.
func DialRedisCache[T any](
	ctx context.Context,
	addr, password string,
	db int,
	keyPrefix string,
) (*RedisCache[T], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return &RedisCache[T]{client: client, keyPrefix: keyPrefix, ownClient: true}, nil
}

func (r *RedisCache[T]) key(k string) string {
	return r.keyPrefix + k
}

func (r *RedisCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrCacheMiss
	}
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return value, nil
}

func (r *RedisCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RedisCache[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RedisCache[T]) Close() error {
	if !r.ownClient {
		return nil
	}
	return r.client.Close()
}

func (r *RedisCache[T]) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// GetWithFetch falls back to fetchFunc when redis misses or is unreachable,
// so a cache outage degrades to direct lookups.
func (r *RedisCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if value, err := r.Get(ctx, key); err == nil {
		return value, nil
	}
	value, err := fetchFunc(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	_ = r.Set(ctx, key, value, ttl)
	return value, nil
}
