package authz

import (
	"fmt"
	"strings"
)

// Wildcard is the universal grant: all actions on all resources.
const Wildcard = "*:*"

// Permission is a parsed permission key. The grammar is
// "resource:action" or "resource:action:scope": lowercase tokens,
// colon-delimited, no escaping. "*" is allowed as a token.
type Permission struct {
	Resource string
	Action   string
	Scope    string
}

// ParsePermission parses and validates a permission key.
func ParsePermission(key string) (Permission, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Permission{}, fmt.Errorf("authz: malformed permission key %q: want resource:action[:scope]", key)
	}

	for _, part := range parts {
		if part == "" {
			return Permission{}, fmt.Errorf("authz: malformed permission key %q: empty token", key)
		}

		if part != strings.ToLower(part) {
			return Permission{}, fmt.Errorf("authz: malformed permission key %q: tokens must be lowercase", key)
		}
	}

	p := Permission{Resource: parts[0], Action: parts[1]}
	if len(parts) == 3 {
		p.Scope = parts[2]
	}

	return p, nil
}

// Key renders the permission back to its string form.
func (p Permission) Key() string {
	if p.Scope != "" {
		return p.Resource + ":" + p.Action + ":" + p.Scope
	}

	return p.Resource + ":" + p.Action
}

// Set is an unordered set of permission keys.
type Set map[string]struct{}

// NewSet builds a set from the given keys, eliminating duplicates.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, key := range keys {
		s[key] = struct{}{}
	}

	return s
}

// Add inserts a key. Idempotent.
func (s Set) Add(key string) {
	s[key] = struct{}{}
}

// Remove deletes a key. Idempotent even if the key is absent.
func (s Set) Remove(key string) {
	delete(s, key)
}

// Contains reports verbatim membership, without matching rules.
func (s Set) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Union returns a new set containing the keys of both sets.
func (s Set) Union(other Set) Set {
	merged := make(Set, len(s)+len(other))
	for key := range s {
		merged[key] = struct{}{}
	}

	for key := range other {
		merged[key] = struct{}{}
	}

	return merged
}

// Keys returns the set as a slice. Order is unspecified.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}

	return keys
}

// HasPermission reports whether the set grants the required key.
// Matching precedence (first match wins; order is for efficiency only):
// exact key or the universal wildcard, then "resource:*", then a scoped
// requirement falling back to its unscoped "resource:action" form.
func HasPermission(set Set, required string) bool {
	if set.Contains(required) || set.Contains(Wildcard) {
		return true
	}

	p, err := ParsePermission(required)
	if err != nil {
		return false
	}

	if set.Contains(p.Resource + ":*") {
		return true
	}

	if p.Scope != "" && set.Contains(p.Resource+":"+p.Action) {
		return true
	}

	return false
}

// legacyViewPermissions maps resource names to flat pre-grammar permission
// strings that some tenants still carry verbatim.
var legacyViewPermissions = map[string]string{
	"projects":     "view_projects",
	"courses":      "view_courses",
	"events":       "view_events",
	"participants": "view_participants",
}

// CanViewAll reports whether the set grants unrestricted read on the resource,
// either via "{resource}:read" or via the legacy flat permission string.
func CanViewAll(set Set, resource string) bool {
	if HasPermission(set, resource+":read") {
		return true
	}

	if legacy, ok := legacyViewPermissions[resource]; ok {
		return set.Contains(legacy)
	}

	return false
}

// assignedScopes are the read scopes that restrict visibility to records the
// principal is associated with.
var assignedScopes = []string{"assigned", "own", "enrolled"}

// CanViewAssignedOnly reports whether the set grants only association-scoped
// read on the resource. Always false when CanViewAll is true.
func CanViewAssignedOnly(set Set, resource string) bool {
	if CanViewAll(set, resource) {
		return false
	}

	for _, scope := range assignedScopes {
		if HasPermission(set, resource+":read:"+scope) {
			return true
		}
	}

	return false
}
