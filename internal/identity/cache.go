package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/store"

	"github.com/looplj/orghub/internal/log"
	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/pkg/xcache"
)

type CacheConfig struct {
	xcache.Config `conf:",squash" yaml:",inline" json:",inline"`

	// TTL bounds how long cached claims are served before the provider is
	// asked again.
	TTL time.Duration `conf:"ttl" yaml:"ttl" json:"ttl"`
}

// ClaimsCache serves session claims from a two-tier cache, falling through to
// the identity provider on miss. The tiering policy (memory, redis, chained)
// is configuration; callers only see GetCachedClaims.
type ClaimsCache struct {
	client Client
	cache  xcache.Cache[objects.Claims]
	ttl    time.Duration
}

func NewClaimsCache(client Client, cfg CacheConfig) *ClaimsCache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return &ClaimsCache{
		client: client,
		cache:  xcache.NewFromConfig[objects.Claims](cfg.Config),
		ttl:    ttl,
	}
}

func claimsKey(workosUserID string) string {
	return fmt.Sprintf("claims:%s", workosUserID)
}

// GetCachedClaims returns the claims for the user, from cache when fresh.
// Returns nil without error when the provider does not know the user.
func (c *ClaimsCache) GetCachedClaims(ctx context.Context, workosUserID string) (*objects.Claims, error) {
	key := claimsKey(workosUserID)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		return &cached, nil
	}

	claims, err := c.client.FetchClaims(ctx, workosUserID)
	if err != nil {
		return nil, err
	}

	if claims == nil {
		return nil, nil
	}

	if err := c.cache.Set(ctx, key, *claims, store.WithExpiration(c.ttl)); err != nil {
		log.Warn(ctx, "failed to cache claims", log.String("workos_user_id", workosUserID), log.Cause(err))
	}

	return claims, nil
}

// Invalidate drops the cached claims for the user, forcing a provider fetch
// on the next request.
func (c *ClaimsCache) Invalidate(ctx context.Context, workosUserID string) error {
	return c.cache.Delete(ctx, claimsKey(workosUserID))
}
