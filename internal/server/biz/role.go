package biz

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/authz"
	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/store/pg"
)

type RoleServiceParams struct {
	fx.In

	Store *pg.Store
}

// RoleService manages application roles and the per-organization permission
// overrides layered on top of their baselines.
type RoleService struct {
	*AbstractService

	store *pg.Store
}

func NewRoleService(params RoleServiceParams) *RoleService {
	return &RoleService{
		AbstractService: &AbstractService{db: params.Store.DB()},
		store:           params.Store,
	}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]objects.Role, error) {
	return s.store.ListRoles(ctx)
}

func (s *RoleService) ListOverrides(ctx context.Context, orgID, roleID int64) ([]objects.PermissionOverride, error) {
	return s.store.RoleOverrides(ctx, orgID, roleID)
}

// SetOverride enables or disables one permission key for a role within one
// organization. The key must parse under the permission grammar.
func (s *RoleService) SetOverride(ctx context.Context, orgID, roleID int64, permissionKey string, enabled bool) error {
	if _, err := authz.ParsePermission(permissionKey); err != nil {
		return objects.Ef(objects.KindValidation, "invalid permission key %q", permissionKey)
	}

	if err := s.store.SetOverride(ctx, orgID, roleID, permissionKey, enabled); err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}

	return nil
}

func (s *RoleService) RemoveOverride(ctx context.Context, orgID, roleID int64, permissionKey string) error {
	if err := s.store.RemoveOverride(ctx, orgID, roleID, permissionKey); err != nil {
		return fmt.Errorf("failed to remove override: %w", err)
	}

	return nil
}
