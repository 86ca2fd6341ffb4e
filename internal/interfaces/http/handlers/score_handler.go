package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/application/service"
	domainservice "github.com/turtacn/xpx/internal/domain/service"
	"github.com/turtacn/xpx/internal/interfaces/http/middleware"
	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
	"github.com/turtacn/xpx/pkg/utils"
)

// ScoreHandler exposes the scoring pipeline over HTTP.
type ScoreHandler struct {
	scoring service.ScoringAppService
	log     logger.Logger
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scoring service.ScoringAppService, log logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		scoring: scoring,
		log:     log,
	}
}

// Score godoc
// @Summary      Score a salary advance
// @Description  Returns the risk score, band, top drivers and recommended action.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        mode     query     string            false  "RULES_ONLY or ML_PLUS_RULES; the body field wins"
// @Param        request  body      dto.ScoreRequest  true   "Advance request"
// @Success      200      {object}  models.ScoringResult
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      422      {object}  errors.ErrorResponse
// @Failure      429      {object}  errors.ErrorResponse
// @Router       /score [post]
func (h *ScoreHandler) Score(c *gin.Context) {
	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug(c.Request.Context(), "Malformed scoring request", logger.Error(err))
		dto.SendError(c, errors.ErrInvalidRequest("request body must be a JSON object").WithCause(err))
		return
	}
	if req.Mode == "" {
		req.Mode = c.Query("mode")
	}

	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = utils.NewRequestID()
	}

	result, err := h.scoring.Score(c.Request.Context(), requestID, &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, http.StatusOK, result)
}

// Bands godoc
// @Summary      Score bands
// @Description  Lists the inclusive score range and recommended action of each risk band.
// @Tags         scoring
// @Produce      json
// @Success      200  {array}  dto.BandRow
// @Router       /bands [get]
func (h *ScoreHandler) Bands(c *gin.Context) {
	bands := domainservice.Bands()
	rows := make([]dto.BandRow, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, dto.BandRow{Band: string(b.Band), Lower: b.Lower, Upper: b.Upper, Action: b.Action})
	}
	dto.SendSuccess(c, http.StatusOK, rows)
}
