package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/server/middleware"
)

// JSONError returns a JSON error response and adds the error to gin context
// for access logging.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.ErrorResponse{
		Error: objects.ErrorBody{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}

// Error maps an engine error to its wire status and responds.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := objects.KindOf(err)
	c.JSON(middleware.StatusForKind(kind), objects.ErrorResponse{
		Error: objects.ErrorBody{
			Type:    kind.String(),
			Message: err.Error(),
		},
	})
}
