// Package authz implements the permission model of the engine: the permission
// key grammar, the matching rules, and the resolver that computes a
// principal's effective permission set for one (user, organization) pair.
//
// Core concepts:
//
//   - Permission: a colon-delimited key "resource:action" or
//     "resource:action:scope". "*:*" is the universal grant.
//
//   - Set: an unordered set of permission keys. Matching follows a fixed
//     precedence: exact key or universal wildcard, then "resource:*", then a
//     scoped key falling back to its unscoped "resource:action" form.
//
//   - Resolver: combines the identity-provider role claim, the local role
//     assignment and the per-organization permission overrides into one
//     effective set. Provider admin roles (hierarchy 0-1) short-circuit to
//     the universal grant without touching the database.
//
// Usage rules:
//
//  1. A resolution is a per-request snapshot; never cache it across requests.
//  2. Overrides are unordered; the resolved set must not depend on their
//     application order.
package authz
