package xcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lib_store "github.com/eko/gocache/lib/v4/store"
	redis "github.com/redis/go-redis/v9"
)

const redisType = "redis"

// RedisStore is a typed gocache store over a go-redis client. Values are
// JSON-encoded on the wire.
type RedisStore[T any] struct {
	client  redis.UniversalClient
	options *lib_store.Options
}

func NewRedisStore[T any](client redis.UniversalClient, options ...lib_store.Option) *RedisStore[T] {
	return &RedisStore[T]{
		client:  client,
		options: lib_store.ApplyOptions(options...),
	}
}

// Get returns typed data stored for a given key.
func (gs *RedisStore[T]) Get(ctx context.Context, key any) (any, error) {
	var result T

	object, err := gs.client.Get(ctx, fmt.Sprint(key)).Result()
	if errors.Is(err, redis.Nil) {
		return result, lib_store.NotFoundWithCause(err)
	}

	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(object), &result); err != nil {
		return result, fmt.Errorf("failed to decode cached value: %w", err)
	}

	return result, nil
}

// GetWithTTL returns typed data and its remaining TTL.
func (gs *RedisStore[T]) GetWithTTL(ctx context.Context, key any) (any, time.Duration, error) {
	object, err := gs.Get(ctx, key)
	if err != nil {
		return object, 0, err
	}

	ttl, err := gs.client.TTL(ctx, fmt.Sprint(key)).Result()
	if err != nil {
		return object, 0, err
	}

	return object, ttl, nil
}

// Set stores the JSON encoding of value under key.
func (gs *RedisStore[T]) Set(ctx context.Context, key any, value any, options ...lib_store.Option) error {
	opts := lib_store.ApplyOptionsWithDefault(gs.options, options...)

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for cache: %w", err)
	}

	return gs.client.Set(ctx, fmt.Sprint(key), encoded, opts.Expiration).Err()
}

func (gs *RedisStore[T]) Delete(ctx context.Context, key any) error {
	return gs.client.Del(ctx, fmt.Sprint(key)).Err()
}

func (gs *RedisStore[T]) Invalidate(ctx context.Context, options ...lib_store.InvalidateOption) error {
	return nil
}

func (gs *RedisStore[T]) Clear(ctx context.Context) error {
	return gs.client.FlushAll(ctx).Err()
}

func (gs *RedisStore[T]) GetType() string {
	return redisType
}
