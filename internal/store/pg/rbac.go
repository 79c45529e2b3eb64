package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/looplj/orghub/internal/authz"
	"github.com/looplj/orghub/internal/objects"
)

var _ authz.Store = (*Store)(nil)

// UserByWorkOSID returns the local principal record, or nil if none exists.
func (s *Store) UserByWorkOSID(ctx context.Context, workosUserID string) (*objects.User, error) {
	var user objects.User

	row := s.db.QueryRowContext(ctx, `
		select id, workos_user_id, email, is_active
		from users
		where workos_user_id = $1
	`, workosUserID)
	if err := row.Scan(&user.ID, &user.WorkOSUserID, &user.Email, &user.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// RoleAssignment returns the assignment for (user, organization) with the
// role and its baseline permission keys, or nil if the user has no role in
// the organization.
func (s *Store) RoleAssignment(ctx context.Context, userID, orgID int64) (*objects.RoleAssignment, error) {
	assignment := objects.RoleAssignment{UserID: userID, OrganizationID: orgID}

	row := s.db.QueryRowContext(ctx, `
		select r.id, r.slug, r.name, r.hierarchy_level
		from user_org_roles uor
		join roles r on r.id = uor.role_id
		where uor.user_id = $1 and uor.organization_id = $2
	`, userID, orgID)
	if err := row.Scan(&assignment.Role.ID, &assignment.Role.Slug, &assignment.Role.Name, &assignment.Role.HierarchyLevel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query role assignment: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		select p.key
		from role_permissions rp
		join permissions p on p.id = rp.permission_id
		where rp.role_id = $1
	`, assignment.Role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query baseline permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}

		assignment.BaselinePermissions = append(assignment.BaselinePermissions, key)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &assignment, nil
}

// RoleOverrides returns all per-organization permission overrides for the
// role. Order is unspecified; callers must not depend on it.
func (s *Store) RoleOverrides(ctx context.Context, orgID, roleID int64) ([]objects.PermissionOverride, error) {
	rows, err := s.db.QueryContext(ctx, `
		select o.organization_id, o.role_id, p.key, o.enabled
		from org_permission_overrides o
		join permissions p on p.id = o.permission_id
		where o.organization_id = $1 and o.role_id = $2
	`, orgID, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query permission overrides: %w", err)
	}
	defer rows.Close()

	var overrides []objects.PermissionOverride

	for rows.Next() {
		var override objects.PermissionOverride
		if err := rows.Scan(&override.OrganizationID, &override.RoleID, &override.PermissionKey, &override.Enabled); err != nil {
			return nil, err
		}

		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overrides, nil
}

// SetOverride upserts a per-organization permission override. The permission
// is referenced by key; unknown keys are rejected by the foreign lookup.
func (s *Store) SetOverride(ctx context.Context, orgID, roleID int64, permissionKey string, enabled bool) error {
	result, err := s.db.ExecContext(ctx, `
		insert into org_permission_overrides (organization_id, role_id, permission_id, enabled)
		select $1, $2, p.id, $4 from permissions p where p.key = $3
		on conflict (organization_id, role_id, permission_id)
		do update set enabled = excluded.enabled
	`, orgID, roleID, permissionKey, enabled)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("unknown permission key %q", permissionKey)
	}

	return nil
}

// RemoveOverride deletes an override, restoring the role's baseline behavior
// for the permission.
func (s *Store) RemoveOverride(ctx context.Context, orgID, roleID int64, permissionKey string) error {
	_, err := s.db.ExecContext(ctx, `
		delete from org_permission_overrides o
		using permissions p
		where p.id = o.permission_id
		  and o.organization_id = $1 and o.role_id = $2 and p.key = $3
	`, orgID, roleID, permissionKey)
	if err != nil {
		return fmt.Errorf("failed to remove override: %w", err)
	}

	return nil
}

// ListRoles returns all application roles.
func (s *Store) ListRoles(ctx context.Context) ([]objects.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, slug, name, hierarchy_level
		from roles
		order by hierarchy_level, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []objects.Role

	for rows.Next() {
		var role objects.Role
		if err := rows.Scan(&role.ID, &role.Slug, &role.Name, &role.HierarchyLevel); err != nil {
			return nil, err
		}

		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

// OrganizationByID resolves a tenant with its derived accessible
// sub-organization id set.
func (s *Store) OrganizationByID(ctx context.Context, orgID int64) (*objects.Organization, error) {
	var org objects.Organization

	row := s.db.QueryRowContext(ctx, `
		select id, workos_org_id, title
		from organizations
		where id = $1
	`, orgID)
	if err := row.Scan(&org.OrganizationID, &org.WorkOSOrgID, &org.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query organization: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		select id
		from sub_organizations
		where organization_id = $1
		order by id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-organizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		org.SubOrganizationIDs = append(org.SubOrganizationIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &org, nil
}

// OrganizationByWorkOSID resolves a tenant by its identity-provider id.
func (s *Store) OrganizationByWorkOSID(ctx context.Context, workosOrgID string) (*objects.Organization, error) {
	var orgID int64

	row := s.db.QueryRowContext(ctx, `
		select id
		from organizations
		where workos_org_id = $1
	`, workosOrgID)
	if err := row.Scan(&orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query organization: %w", err)
	}

	return s.OrganizationByID(ctx, orgID)
}
