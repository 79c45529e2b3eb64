package authz

import (
	"context"
	"fmt"

	"github.com/looplj/orghub/internal/log"
	"github.com/looplj/orghub/internal/objects"
)

// Store is the persistence surface the resolver reads from.
// Lookups that find nothing return nil without error.
type Store interface {
	// UserByWorkOSID returns the local principal record for an
	// identity-provider user id, or nil if none exists.
	UserByWorkOSID(ctx context.Context, workosUserID string) (*objects.User, error)

	// RoleAssignment returns the role assignment for (user, organization)
	// including the assigned role and its baseline permissions, or nil if the
	// user has no role in the organization.
	RoleAssignment(ctx context.Context, userID, orgID int64) (*objects.RoleAssignment, error)

	// RoleOverrides returns all per-organization permission overrides for
	// (organization, role). Order is unspecified.
	RoleOverrides(ctx context.Context, orgID, roleID int64) ([]objects.PermissionOverride, error)
}

// Resolution is the effective permission state for one (user, organization)
// pair. It is a snapshot: changes to roles or overrides after resolution are
// not reflected within the request.
type Resolution struct {
	Permissions    Set
	AppRole        *objects.Role
	IsAppAdmin     bool
	IsClientAdmin  bool
	HierarchyLevel int
}

// Resolver computes effective permission sets.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolvePermissions computes the effective permission set for the principal
// in the organization, given the raw identity-provider role claim.
//
// Admin-tier provider roles short-circuit to the universal grant without any
// store access. Otherwise the set is the assigned role's baseline with the
// organization's overrides applied: enabled overrides add keys, disabled
// overrides remove them. Add and remove on distinct keys commute, so the
// result is independent of override order.
func (r *Resolver) ResolvePermissions(ctx context.Context, workosUserID string, orgID int64, providerRole string) (Resolution, error) {
	if IsAdminRole(providerRole) {
		return Resolution{
			Permissions:    NewSet(Wildcard),
			AppRole:        nil,
			IsAppAdmin:     false,
			IsClientAdmin:  true,
			HierarchyLevel: adminHierarchyLevel(providerRole),
		}, nil
	}

	user, err := r.store.UserByWorkOSID(ctx, workosUserID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up user %q: %w", workosUserID, err)
	}

	if user == nil {
		return defaultViewerResolution(), nil
	}

	assignment, err := r.store.RoleAssignment(ctx, user.ID, orgID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up role assignment: %w", err)
	}

	if assignment == nil {
		return defaultViewerResolution(), nil
	}

	permissions := NewSet(assignment.BaselinePermissions...)

	overrides, err := r.store.RoleOverrides(ctx, orgID, assignment.Role.ID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up permission overrides: %w", err)
	}

	for _, override := range overrides {
		if override.Enabled {
			permissions.Add(override.PermissionKey)
		} else {
			permissions.Remove(override.PermissionKey)
		}
	}

	role := assignment.Role

	log.Debug(ctx, "authz: permissions resolved",
		log.String("workos_user_id", workosUserID),
		log.Int64("organization_id", orgID),
		log.String("role", role.Slug),
		log.Int("hierarchy_level", role.HierarchyLevel),
		log.Int("permissions", len(permissions)),
	)

	return Resolution{
		Permissions:    permissions,
		AppRole:        &role,
		IsAppAdmin:     false,
		IsClientAdmin:  false,
		HierarchyLevel: role.HierarchyLevel,
	}, nil
}

func defaultViewerResolution() Resolution {
	return Resolution{
		Permissions:    DefaultViewerPermissions(),
		AppRole:        nil,
		IsAppAdmin:     false,
		IsClientAdmin:  false,
		HierarchyLevel: objects.HierarchyViewer,
	}
}
