package biz

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/log"
	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/pkg/xcache"
	"github.com/looplj/orghub/internal/store/pg"
)

type UserServiceParams struct {
	fx.In

	CacheConfig xcache.Config
	Store       *pg.Store
}

type UserService struct {
	*AbstractService

	store     *pg.Store
	userCache xcache.Cache[objects.User]
}

func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		AbstractService: &AbstractService{db: params.Store.DB()},
		store:           params.Store,
		userCache:       xcache.NewFromConfig[objects.User](params.CacheConfig),
	}
}

// GetByWorkOSID returns the local principal record for an identity-provider
// user id, or nil when no local record exists. Absence is not an error: a
// principal can authenticate before any local record is provisioned.
func (s *UserService) GetByWorkOSID(ctx context.Context, workosUserID string) (*objects.User, error) {
	key := "user:" + workosUserID

	cached, err := s.userCache.Get(ctx, key)
	if err == nil {
		return &cached, nil
	}

	user, err := s.store.UserByWorkOSID(ctx, workosUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", workosUserID, err)
	}

	if user == nil {
		return nil, nil
	}

	if err := s.userCache.Set(ctx, key, *user); err != nil {
		log.Warn(ctx, "failed to cache user", log.String("workos_user_id", workosUserID), log.Cause(err))
	}

	return user, nil
}

// Invalidate drops the cached record so the next lookup hits the store.
func (s *UserService) Invalidate(ctx context.Context, workosUserID string) error {
	return s.userCache.Delete(ctx, "user:"+workosUserID)
}
