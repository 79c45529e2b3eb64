package objects

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures. Every error produced by the authorization
// gate and the scoped data access layer carries exactly one Kind; the HTTP
// error middleware maps kinds to wire statuses.
type Kind int

const (
	// KindInternal is the fallback for errors without an explicit kind.
	KindInternal Kind = iota
	// KindUnauthorized missing or invalid session or claims.
	KindUnauthorized
	// KindAccountInactive the principal is explicitly deactivated.
	KindAccountInactive
	// KindNoOrganization no tenant selected, or the selected tenant does not exist.
	KindNoOrganization
	// KindOrganizationAccessDenied the principal has no membership in the selected tenant.
	KindOrganizationAccessDenied
	// KindAdminRequired the route requires an admin and the principal is not one.
	KindAdminRequired
	// KindValidation missing or invalid input to the scoped data access layer.
	KindValidation
	// KindInvalidSubOrganization target partition id outside the caller's accessible set.
	KindInvalidSubOrganization
	// KindNotFound scoped point lookup for a mutation target returned nothing.
	// Absence and out-of-tenant existence are indistinguishable by design.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindAccountInactive:
		return "account_inactive"
	case KindNoOrganization:
		return "no_organization"
	case KindOrganizationAccessDenied:
		return "organization_access_denied"
	case KindAdminRequired:
		return "admin_required"
	case KindValidation:
		return "validation"
	case KindInvalidSubOrganization:
		return "invalid_sub_organization"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "internal"
	}
}

// Error is the engine error type.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// E creates an engine error with the given kind.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Ef creates an engine error with a formatted message.
func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an engine error wrapping a cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf extracts the Kind from err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

// ErrorResponse is the wire-level error payload.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
