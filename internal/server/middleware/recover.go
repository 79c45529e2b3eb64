package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/looplj/orghub/internal/log"
)

// Recovery converts handler panics into a 500 JSON response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "panic recovered",
					log.Any("panic", r),
					log.String("stack", string(debug.Stack())),
				)
				AbortWithStatus(c, http.StatusInternalServerError, fmt.Errorf("internal server error"))
			}
		}()

		c.Next()
	}
}
