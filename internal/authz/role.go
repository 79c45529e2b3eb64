package authz

import (
	"strings"

	"github.com/looplj/orghub/internal/objects"
)

// adminRoles is the fixed identity-provider role vocabulary that grants the
// universal permission without a database lookup. Keys are case-folded.
var adminRoles = map[string]struct{}{
	"owner":              {},
	"admin":              {},
	"organization admin": {},
	"org admin":          {},
	"org-admin":          {},
	"administrator":      {},
}

// IsAdminRole reports whether the raw identity-provider role is one of the
// admin-tier roles.
func IsAdminRole(rawRole string) bool {
	_, ok := adminRoles[strings.ToLower(strings.TrimSpace(rawRole))]
	return ok
}

// NormalizeRole folds the raw identity-provider role into the two-value
// vocabulary the rest of the system depends on.
func NormalizeRole(rawRole string) string {
	if IsAdminRole(rawRole) {
		return "admin"
	}

	return "user"
}

// adminHierarchyLevel returns the platform-admin tier for an admin-tier role:
// 0 for owner, 1 for every other admin spelling.
func adminHierarchyLevel(rawRole string) int {
	if strings.ToLower(strings.TrimSpace(rawRole)) == "owner" {
		return objects.HierarchyOwner
	}

	return objects.HierarchyClientAdmin
}

// DefaultViewerPermissions is the fallback permission set for principals
// without a local record or without a role assignment in the tenant.
func DefaultViewerPermissions() Set {
	return NewSet(
		"projects:read:assigned",
		"courses:read:published",
		"events:read:assigned",
	)
}
