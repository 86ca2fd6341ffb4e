package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/pkg/errors"
)

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse identifies the running build
type VersionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// BandRow describes one row of the banding table
type BandRow struct {
	Band   string `json:"band"`
	Lower  int    `json:"lower"`
	Upper  int    `json:"upper"`
	Action string `json:"action"`
}

// SendSuccess writes data as the response body without an envelope.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// SendError aborts the request with the error body for err. The normalized
// error is attached to the context so the logging middleware can pick a level.
func SendError(c *gin.Context, err error) {
	se := errors.Normalize(err)
	_ = c.Error(se)
	c.AbortWithStatusJSON(se.HTTPStatus(), errors.ToErrorResponse(se))
}
