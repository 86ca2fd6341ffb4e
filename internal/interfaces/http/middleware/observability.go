package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/propagation"

	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/pkg/constants"
)

// Observability starts a server span per request and records the request
// counter and latency histogram. Metrics are labelled with the route
// template so that unknown paths collapse into "not_found".
func Observability(tracing *monitoring.TracingManager, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}

		ctx := tracing.ExtractTraceContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracing.StartSpan(ctx, c.Request.Method+" "+path, map[string]interface{}{
			"http.method":    c.Request.Method,
			"http.route":     path,
			"http.client_ip": c.ClientIP(),
		})
		defer span.End()

		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			ctx = context.WithValue(ctx, constants.ContextKeyTraceID, traceID)
			c.Set(string(constants.ContextKeyTraceID), traceID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, path, status, time.Since(start))
		tracing.SetSpanAttributes(ctx, map[string]interface{}{"http.status_code": status})
	}
}
