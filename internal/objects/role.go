package objects

// Hierarchy levels rank a role's authority from 0 (highest) to 4 (lowest).
// Levels 0 and 1 are platform-admin tiers that bypass the database permission
// lookup entirely; levels 2 to 4 are application roles whose permissions are
// resolved from the database.
const (
	HierarchyOwner       = 0
	HierarchyClientAdmin = 1
	HierarchyManager     = 2
	HierarchyStaff       = 3
	HierarchyViewer      = 4
)

// Role is an application role as stored in the database.
type Role struct {
	ID             int64  `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	HierarchyLevel int    `json:"hierarchyLevel"`
}

// RoleAssignment binds a principal to a role within exactly one tenant.
// BaselinePermissions are the role's permission keys before any
// per-organization override is applied.
type RoleAssignment struct {
	UserID              int64
	OrganizationID      int64
	Role                Role
	BaselinePermissions []string
}

// PermissionOverride is a per-tenant, per-role enable/disable adjustment of a
// single permission key, layered on top of the role's baseline set.
type PermissionOverride struct {
	OrganizationID int64
	RoleID         int64
	PermissionKey  string
	Enabled        bool
}

// User is the local principal record.
type User struct {
	ID           int64
	WorkOSUserID string
	Email        string
	IsActive     bool
}

// Organization is the resolved tenant: the accessible sub-organization ids
// are the unit of data isolation for every scoped operation.
type Organization struct {
	OrganizationID     int64   `json:"organizationId"`
	WorkOSOrgID        string  `json:"workosOrgId"`
	Title              string  `json:"title"`
	SubOrganizationIDs []int64 `json:"subOrganizationIds"`
}
