package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/internal/infrastructure/ratelimit"
	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
)

// RateLimit throttles requests per client IP. Rejected requests get a 429
// with Retry-After in whole seconds.
func RateLimit(limiter *ratelimit.KeyedLimiter, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.ClientIP())
		c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
		if decision.Allowed {
			c.Next()
			return
		}

		metrics.RecordRateLimitHit(constants.RateLimitScopeIP)
		log.Warn(c.Request.Context(), "Rate limit exceeded",
			logger.String("client_ip", c.ClientIP()),
			logger.Int("limit", decision.Limit),
		)

		retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
		dto.SendError(c, errors.ErrRateLimitExceeded(string(constants.RateLimitScopeIP), decision.Limit))
	}
}
