package biz

import (
	"context"

	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/identity"
	"github.com/looplj/orghub/internal/objects"
)

type ClaimsServiceParams struct {
	fx.In

	Cache *identity.ClaimsCache
}

// ClaimsService is the single entry point for session claims. Retrieval is
// cache-first; the identity provider is only reached on a miss.
type ClaimsService struct {
	cache *identity.ClaimsCache
}

func NewClaimsService(params ClaimsServiceParams) *ClaimsService {
	return &ClaimsService{
		cache: params.Cache,
	}
}

// GetClaims returns the claims payload for a principal, or nil when the
// identity provider does not know the user.
func (s *ClaimsService) GetClaims(ctx context.Context, workosUserID string) (*objects.Claims, error) {
	return s.cache.GetCachedClaims(ctx, workosUserID)
}

// Invalidate drops any cached claims for the principal.
func (s *ClaimsService) Invalidate(ctx context.Context, workosUserID string) error {
	return s.cache.Invalidate(ctx, workosUserID)
}
