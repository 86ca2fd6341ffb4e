package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
)

// Logging writes one line per request after the handler completes.
// Server errors log at error level, client errors at warn.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		ctx := c.Request.Context()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}

		switch {
		case err != nil && errors.ShouldLogError(err):
			log.Error(ctx, "Request failed", err, fields)
		case err != nil:
			fields["error"] = err.Error()
			log.Warn(ctx, "Request rejected", fields)
		case status >= 500:
			log.Error(ctx, "Request failed", errors.ErrServerError("handler returned a server error status"), fields)
		case status >= 400:
			log.Warn(ctx, "Request rejected", fields)
		default:
			log.Info(ctx, "Request processed", fields)
		}
	}
}
