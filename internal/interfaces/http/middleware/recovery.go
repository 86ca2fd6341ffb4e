package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
)

// Recovery converts a panic into a 500 server_error response.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				log.Error(c.Request.Context(), "Panic recovered", err, logger.Fields{
					"path":  c.Request.URL.Path,
					"stack": string(debug.Stack()),
				})
				dto.SendError(c, errors.ErrServerError("internal error").WithCause(err))
			}
		}()
		c.Next()
	}
}
