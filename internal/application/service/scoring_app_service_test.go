package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/domain/models"
	domainService "github.com/turtacn/xpx/internal/domain/service"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/pkg/errors"
	"github.com/turtacn/xpx/pkg/logger"
)

// MockDecisionRecorder is a mock implementation of DecisionRecorder
type MockDecisionRecorder struct {
	mock.Mock
}

func (m *MockDecisionRecorder) RecordDecision(mode models.Mode, band models.RiskBand, score int, duration time.Duration) {
	m.Called(mode, band, score, duration)
}

func (m *MockDecisionRecorder) RecordValidationFailure(field string) {
	m.Called(field)
}

func newRequest(t *testing.T, body string) *dto.ScoreRequest {
	t.Helper()
	var req dto.ScoreRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func newTestService(recorder DecisionRecorder, mode models.Mode) ScoringAppService {
	return NewScoringAppService(
		domainService.NewDefaultScorer(),
		mode,
		recorder,
		monitoring.NewNoopTracingManager(logger.NewNoopLogger()),
		logger.NewNoopLogger(),
	)
}

func TestScoringAppService_UsesDefaultMode(t *testing.T) {
	recorder := new(MockDecisionRecorder)
	recorder.On("RecordDecision", models.ModeMLPlusRules, models.RiskBandRed, 94, mock.AnythingOfType("time.Duration")).Once()

	svc := newTestService(recorder, models.ModeMLPlusRules)
	req := newRequest(t, `{"amount":3000,"employer":"QuickShip","pay_frequency":"weekly","tenure_months":1,"repayment_history_score":550}`)

	result, err := svc.Score(context.Background(), "REQ-abc", req)
	require.NoError(t, err)

	assert.Equal(t, "REQ-abc", result.RequestID)
	assert.Equal(t, models.ModeMLPlusRules, result.Mode)
	assert.Equal(t, 94, result.RiskScore)
	require.NotNil(t, result.MLScore)
	assert.Equal(t, 0.95, *result.MLScore)
	recorder.AssertExpectations(t)
}

func TestScoringAppService_RequestModeWins(t *testing.T) {
	recorder := new(MockDecisionRecorder)
	recorder.On("RecordDecision", models.ModeRulesOnly, models.RiskBandAmber, 57, mock.Anything).Once()

	svc := newTestService(recorder, models.ModeMLPlusRules)
	req := newRequest(t, `{"amount":1200,"employer":"Acme","pay_frequency":"biweekly","tenure_months":9,"repayment_history_score":600,"mode":"rules_only"}`)

	result, err := svc.Score(context.Background(), "REQ-1", req)
	require.NoError(t, err)

	assert.Equal(t, models.ModeRulesOnly, result.Mode)
	assert.Equal(t, models.RiskBandAmber, result.RiskBand)
	assert.Nil(t, result.MLScore)
	recorder.AssertExpectations(t)
}

func TestScoringAppService_SetDefaultMode(t *testing.T) {
	recorder := new(MockDecisionRecorder)
	recorder.On("RecordDecision", models.ModeRulesOnly, models.RiskBandGreen, 10, mock.Anything).Once()

	svc := newTestService(recorder, models.ModeMLPlusRules)
	svc.SetDefaultMode(models.ModeRulesOnly)
	assert.Equal(t, models.ModeRulesOnly, svc.DefaultMode())

	req := newRequest(t, `{"amount":500,"employer":"Acme","pay_frequency":"monthly","tenure_months":24,"repayment_history_score":720}`)
	result, err := svc.Score(context.Background(), "REQ-2", req)
	require.NoError(t, err)
	assert.Equal(t, 10, result.RiskScore)
	recorder.AssertExpectations(t)
}

func TestScoringAppService_ValidationFailure(t *testing.T) {
	recorder := new(MockDecisionRecorder)
	recorder.On("RecordValidationFailure", "amount").Once()
	recorder.On("RecordValidationFailure", "tenure_months").Once()

	svc := newTestService(recorder, models.ModeMLPlusRules)
	req := newRequest(t, `{"amount":0,"employer":"Acme","pay_frequency":"monthly","repayment_history_score":720}`)

	result, err := svc.Score(context.Background(), "REQ-3", req)
	require.Error(t, err)
	assert.Nil(t, result)

	ve, ok := errors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"amount", "tenure_months"}, ve.FieldNames())
	assert.Equal(t, 422, errors.Normalize(err).HTTPStatus())
	recorder.AssertNotCalled(t, "RecordDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	recorder.AssertExpectations(t)
}

func TestScoringAppService_NilRequest(t *testing.T) {
	svc := newTestService(new(MockDecisionRecorder), models.ModeMLPlusRules)

	_, err := svc.Score(context.Background(), "REQ-4", nil)
	require.Error(t, err)
	assert.Equal(t, 400, errors.Normalize(err).HTTPStatus())
}

func TestScoringAppService_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	metrics := new(MockDecisionRecorder)
	metrics.On("RecordDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	svc := NewScoringAppService(
		domainService.NewDefaultScorer(),
		models.ModeRulesOnly,
		metrics,
		monitoring.NewTracingManagerWithProvider(provider, logger.NewNoopLogger()),
		logger.NewNoopLogger(),
	)
	req := newRequest(t, `{"amount":500,"employer":"Acme","pay_frequency":"monthly","tenure_months":24,"repayment_history_score":720}`)

	_, err := svc.Score(context.Background(), "REQ-5", req)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "scoring.evaluate", spans[0].Name())

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "RULES_ONLY", attrs["mode"])
	assert.Equal(t, "Green", attrs["risk_band"])
	assert.Equal(t, "10", attrs["risk_score"])
}
