// Package objects contains objects shared by the authorization engine,
// the scoped data access layer and the HTTP surface.
// To avoid circular dependencies, we put them here.
package objects
