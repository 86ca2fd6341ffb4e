// Package service provides application-level services that orchestrate domain services
package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/domain/models"
	domainService "github.com/turtacn/xpx/internal/domain/service"
	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
)

// ScoringAppService defines the interface for the scoring application service
type ScoringAppService interface {
	// Score validates req, resolves its mode and returns the explained decision.
	// A *errors.ValidationError is returned when any field is out of bounds.
	Score(ctx context.Context, requestID string, req *dto.ScoreRequest) (*models.ScoringResult, error)

	// DefaultMode returns the mode used when a request does not name one
	DefaultMode() models.Mode

	// SetDefaultMode changes the fallback mode, e.g. after a config reload
	SetDefaultMode(mode models.Mode)
}

// DecisionRecorder receives scoring metrics
type DecisionRecorder interface {
	RecordDecision(mode models.Mode, band models.RiskBand, score int, duration time.Duration)
	RecordValidationFailure(field string)
}

// SpanStarter opens tracing spans
type SpanStarter interface {
	StartSpan(ctx context.Context, spanName string, attrs map[string]interface{}) (context.Context, trace.Span)
	SetSpanAttributes(ctx context.Context, attrs map[string]interface{})
	RecordError(ctx context.Context, err error)
}

type scoringAppServiceImpl struct {
	scorer      *domainService.Scorer
	defaultMode atomic.Value // models.Mode
	metrics     DecisionRecorder
	tracer      SpanStarter
	logger      logger.Logger
}

// NewScoringAppService creates a new instance of ScoringAppService
func NewScoringAppService(
	scorer *domainService.Scorer,
	defaultMode models.Mode,
	metrics DecisionRecorder,
	tracer SpanStarter,
	log logger.Logger,
) ScoringAppService {
	s := &scoringAppServiceImpl{
		scorer:  scorer,
		metrics: metrics,
		tracer:  tracer,
		logger:  log,
	}
	s.defaultMode.Store(defaultMode)
	return s
}

func (s *scoringAppServiceImpl) DefaultMode() models.Mode {
	return s.defaultMode.Load().(models.Mode)
}

func (s *scoringAppServiceImpl) SetDefaultMode(mode models.Mode) {
	s.defaultMode.Store(mode)
}

// Score implements the validate -> resolve -> evaluate pipeline
func (s *scoringAppServiceImpl) Score(ctx context.Context, requestID string, req *dto.ScoreRequest) (*models.ScoringResult, error) {
	ctx, span := s.tracer.StartSpan(ctx, "scoring.evaluate", map[string]interface{}{
		"request_id": requestID,
	})
	defer span.End()

	if req == nil {
		err := errors.ErrInvalidRequest("request body is required")
		s.tracer.RecordError(ctx, err)
		return nil, err
	}

	if ve := req.Validate(); ve != nil {
		for _, field := range ve.FieldNames() {
			s.metrics.RecordValidationFailure(field)
		}
		s.tracer.RecordError(ctx, ve)
		s.logger.Warn(ctx, "Scoring request rejected",
			logger.String("request_id", requestID),
			logger.Fields{"fields": ve.FieldNames()},
		)
		return nil, ve
	}

	mode := req.ResolveMode(s.DefaultMode())
	adv := req.ToAdvance()

	start := time.Now()
	result := s.scorer.Evaluate(requestID, adv, mode)
	elapsed := time.Since(start)

	s.metrics.RecordDecision(result.Mode, result.RiskBand, result.RiskScore, elapsed)
	s.tracer.SetSpanAttributes(ctx, map[string]interface{}{
		"mode":       string(result.Mode),
		"risk_score": result.RiskScore,
		"risk_band":  string(result.RiskBand),
	})

	fields := logger.Fields{
		"request_id": requestID,
		"mode":       string(result.Mode),
		"risk_score": result.RiskScore,
		"risk_band":  string(result.RiskBand),
		"action":     result.RecommendedAction,
		"duration":   elapsed.String(),
	}
	if result.MLScore != nil {
		fields["ml_score"] = *result.MLScore
	}
	s.logger.Info(ctx, "Scoring decision", fields)

	return &result, nil
}
