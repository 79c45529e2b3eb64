package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/orghub/internal/objects"
)

// StatusForKind maps engine error kinds to wire statuses.
func StatusForKind(kind objects.Kind) int {
	switch kind {
	case objects.KindUnauthorized:
		return http.StatusUnauthorized
	case objects.KindAccountInactive, objects.KindOrganizationAccessDenied, objects.KindAdminRequired:
		return http.StatusForbidden
	case objects.KindNoOrganization, objects.KindValidation, objects.KindInvalidSubOrganization:
		return http.StatusBadRequest
	case objects.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError aborts the request with a JSON error response derived from
// the error's kind and adds the error to gin context for access logging.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := objects.KindOf(err)
	c.AbortWithStatusJSON(StatusForKind(kind), objects.ErrorResponse{
		Error: objects.ErrorBody{
			Type:    kind.String(),
			Message: err.Error(),
		},
	})
}

// AbortWithStatus aborts with an explicit status for errors that carry no
// engine kind.
func AbortWithStatus(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, objects.ErrorResponse{
		Error: objects.ErrorBody{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}
