// Package middleware contains the gin middleware chain shared by every HTTP route.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/utils"
)

const maxRequestIDLength = 128

// RequestID honours an inbound X-Request-ID header or generates a REQ-<uuid>
// identifier. The id is stored on the gin context and on the request context
// and echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = utils.NewRequestID()
		}

		c.Set(string(constants.ContextKeyRequestID), requestID)
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" outside the chain.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(constants.ContextKeyRequestID))
}
