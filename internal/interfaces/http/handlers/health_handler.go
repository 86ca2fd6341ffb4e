package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/pkg/constants"
)

// HealthHandler provides liveness and build information endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports that the process is serving requests.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Version godoc
// @Summary      Version
// @Description  Returns the service title and build version.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.VersionResponse
// @Router       /version [get]
func (h *HealthHandler) Version(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, dto.VersionResponse{
		Name:    constants.ServiceTitle,
		Version: constants.ServiceVersion,
	})
}
