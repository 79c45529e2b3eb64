package xcache

import (
	"context"
	"fmt"
	"time"

	cachelib "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
	redis "github.com/redis/go-redis/v9"

	"github.com/looplj/orghub/internal/log"
)

// Cache is an alias to the gocache CacheInterface for convenience, exposing
// Get, Set, Delete, Invalidate and Clear.
type Cache[T any] = cachelib.CacheInterface[T]

type SetterCache[T any] = cachelib.SetterCacheInterface[T]

// NewMemory creates a pure in-memory cache using patrickmn/go-cache as the
// backend.
func NewMemory[T any](defaultExpiration, cleanupInterval time.Duration) SetterCache[T] {
	client := gocache.New(defaultExpiration, cleanupInterval)
	memStore := gocache_store.NewGoCache(client, store.WithExpiration(defaultExpiration))

	return cachelib.New[T](memStore)
}

// NewRedis creates a pure redis cache over a go-redis client.
func NewRedis[T any](client redis.UniversalClient, expiration time.Duration) SetterCache[T] {
	return cachelib.New[T](NewRedisStore[T](client, store.WithExpiration(expiration)))
}

// NewTwoLevel chains a memory tier in front of a redis tier. Reads fill the
// memory tier; writes go to both.
func NewTwoLevel[T any](mem, rds SetterCache[T]) Cache[T] {
	return cachelib.NewChain[T](mem, rds)
}

// NewFromConfig builds a typed cache from the given Config. An empty or
// unknown mode yields a noop cache so callers can skip nil checks.
func NewFromConfig[T any](cfg Config) Cache[T] {
	if cfg.Mode == "" {
		return NewNoop[T]()
	}

	memExpiration := defaultIfZero(cfg.Memory.Expiration, 5*time.Minute)
	memCleanupInterval := defaultIfZero(cfg.Memory.CleanupInterval, 10*time.Minute)
	mem := NewMemory[T](memExpiration, memCleanupInterval)

	var rds SetterCache[T]

	if cfg.Redis.Addr != "" && cfg.Mode != ModeMemory {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := client.Ping(context.Background()).Err(); err != nil {
			panic(fmt.Errorf("failed to ping redis: %w", err))
		}

		redisExpiration := defaultIfZero(cfg.Redis.Expiration, 30*time.Minute)
		rds = NewRedis[T](client, redisExpiration)
	}

	switch cfg.Mode {
	case ModeTwoLevel:
		if rds != nil {
			log.Info(context.Background(), "Using two-level cache")
			return NewTwoLevel[T](mem, rds)
		}

		return mem
	case ModeRedis:
		if rds == nil {
			panic(fmt.Errorf("redis cache config is invalid"))
		}

		log.Info(context.Background(), "Using redis cache")

		return rds
	case ModeMemory:
		log.Info(context.Background(), "Using memory cache")
		return mem
	default:
		log.Info(context.Background(), "Disable cache")
		return NewNoop[T]()
	}
}

func defaultIfZero(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}

	return d
}
