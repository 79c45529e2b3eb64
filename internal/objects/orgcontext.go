package objects

// OrgContext is the per-request authorization context. It is assembled once
// by the org-scope middleware, attached to the request context, and never
// mutated or reused after that. Every scoped data access call reads it.
type OrgContext struct {
	OrganizationID     int64    `json:"organizationId"`
	WorkOSOrgID        string   `json:"workosOrgId"`
	Title              string   `json:"title"`
	SubOrganizationIDs []int64  `json:"subOrganizationIds"`
	Role               string   `json:"role"`
	NormalizedRole     string   `json:"normalizedRole"`
	IsAdmin            bool     `json:"isAdmin"`
	AppRole            *Role    `json:"appRole"`
	HierarchyLevel     int      `json:"hierarchyLevel"`
	IsAppAdmin         bool     `json:"isAppAdmin"`
	IsClientAdmin      bool     `json:"isClientAdmin"`
	Permissions        []string `json:"permissions"`
	UserID             string   `json:"userId"`
	Email              string   `json:"email"`
	Claims             *Claims  `json:"claims"`
}

// HasSubOrganization reports whether id is in the accessible partition set.
func (c *OrgContext) HasSubOrganization(id int64) bool {
	for _, sub := range c.SubOrganizationIDs {
		if sub == id {
			return true
		}
	}

	return false
}
