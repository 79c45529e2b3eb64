package objects

// OrganizationMembership is one tenant membership asserted by the identity provider.
type OrganizationMembership struct {
	WorkOSOrgID string `json:"workos_org_id"`
	Role        string `json:"role"`
}

// Claims is the identity-provider-asserted session payload for a principal:
// provider user id, email, base permission grants and tenant memberships.
type Claims struct {
	WorkOSUserID  string                   `json:"workos_user_id"`
	Email         string                   `json:"email"`
	Permissions   []string                 `json:"permissions"`
	Organizations []OrganizationMembership `json:"organizations"`
}

// Membership returns the membership whose tenant external id matches workosOrgID.
func (c *Claims) Membership(workosOrgID string) (OrganizationMembership, bool) {
	for _, m := range c.Organizations {
		if m.WorkOSOrgID == workosOrgID {
			return m, true
		}
	}

	return OrganizationMembership{}, false
}
