package biz

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/authz"
	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/store/pg"
)

type OrgServiceParams struct {
	fx.In

	Store    *pg.Store
	Resolver *authz.Resolver
}

// OrgService resolves tenants and assembles the per-request authorization
// context out of the resolved tenant, the claims membership, and the
// permission resolver's output.
type OrgService struct {
	*AbstractService

	store    *pg.Store
	resolver *authz.Resolver
}

func NewOrgService(params OrgServiceParams) *OrgService {
	return &OrgService{
		AbstractService: &AbstractService{db: params.Store.DB()},
		store:           params.Store,
		resolver:        params.Resolver,
	}
}

// GetOrganization resolves a tenant id to full tenant data, or nil when no
// such tenant exists.
func (s *OrgService) GetOrganization(ctx context.Context, orgID int64) (*objects.Organization, error) {
	return s.store.OrganizationByID(ctx, orgID)
}

// ListOrganizations resolves every tenant the claims payload names a
// membership in. Memberships the store does not know are skipped.
func (s *OrgService) ListOrganizations(ctx context.Context, claims *objects.Claims) ([]objects.Organization, error) {
	orgs := make([]objects.Organization, 0, len(claims.Organizations))

	for _, membership := range claims.Organizations {
		org, err := s.store.OrganizationByWorkOSID(ctx, membership.WorkOSOrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve organization %q: %w", membership.WorkOSOrgID, err)
		}

		if org == nil {
			continue
		}

		orgs = append(orgs, *org)
	}

	return orgs, nil
}

// GetOrganizationContext builds the immutable authorization context for one
// (principal, tenant) pair. The tenant must exist and the claims must carry a
// membership whose external org id matches the resolved tenant.
func (s *OrgService) GetOrganizationContext(ctx context.Context, claims *objects.Claims, orgID int64) (*objects.OrgContext, error) {
	org, err := s.store.OrganizationByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization %d: %w", orgID, err)
	}

	if org == nil {
		return nil, objects.E(objects.KindNoOrganization, "organization not found")
	}

	membership, ok := claims.Membership(org.WorkOSOrgID)
	if !ok {
		return nil, objects.E(objects.KindOrganizationAccessDenied, "no membership in organization")
	}

	resolution, err := s.resolver.ResolvePermissions(ctx, claims.WorkOSUserID, org.OrganizationID, membership.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	permissions := resolution.Permissions.Union(authz.NewSet(claims.Permissions...)).Keys()
	sort.Strings(permissions)

	normalized := authz.NormalizeRole(membership.Role)

	return &objects.OrgContext{
		OrganizationID:     org.OrganizationID,
		WorkOSOrgID:        org.WorkOSOrgID,
		Title:              org.Title,
		SubOrganizationIDs: org.SubOrganizationIDs,
		Role:               membership.Role,
		NormalizedRole:     normalized,
		IsAdmin:            normalized == "admin",
		AppRole:            resolution.AppRole,
		HierarchyLevel:     resolution.HierarchyLevel,
		IsAppAdmin:         resolution.IsAppAdmin,
		IsClientAdmin:      resolution.IsClientAdmin,
		Permissions:        permissions,
		UserID:             claims.WorkOSUserID,
		Email:              claims.Email,
		Claims:             claims,
	}, nil
}
