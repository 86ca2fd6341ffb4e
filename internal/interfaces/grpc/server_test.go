package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/application/service"
	"github.com/turtacn/xpx/internal/config"
	"github.com/turtacn/xpx/internal/domain/models"
	domainService "github.com/turtacn/xpx/internal/domain/service"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/pkg/logger"
)

func startServer(t *testing.T, rateLimit config.RateLimitConfig) *grpclib.ClientConn {
	t.Helper()

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 8000, GRPCPort: 50051},
		Scoring:   config.ScoringConfig{DefaultMode: string(models.ModeMLPlusRules)},
		RateLimit: rateLimit,
	}
	log := logger.NewNoopLogger()
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	scoring := service.NewScoringAppService(domainService.NewDefaultScorer(), cfg.Scoring.Mode(), metrics,
		monitoring.NewNoopTracingManager(log), log)

	srv := NewServer(cfg, scoring, metrics, log)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return conn
}

func score(ctx context.Context, conn *grpclib.ClientConn, req *dto.ScoreRequest, opts ...grpclib.CallOption) (*models.ScoringResult, error) {
	out := new(models.ScoringResult)
	opts = append(opts, grpclib.CallContentSubtype(CodecName))
	err := conn.Invoke(ctx, ScoreFullMethod, req, out, opts...)
	return out, err
}

func intPtr(i int) *int { return &i }

func validRequest() *dto.ScoreRequest {
	amount := decimal.NewFromInt(3000)
	req := &dto.ScoreRequest{
		Amount:                &amount,
		Employer:              "QuickShip",
		PayFrequency:          "weekly",
		TenureMonths:          intPtr(1),
		RepaymentHistoryScore: intPtr(550),
	}
	return req
}

func TestScoringService_Score(t *testing.T) {
	conn := startServer(t, config.RateLimitConfig{})

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "REQ-grpc")
	result, err := score(ctx, conn, validRequest(), grpclib.Header(&header))
	require.NoError(t, err)

	assert.Equal(t, "REQ-grpc", result.RequestID)
	assert.Equal(t, models.ModeMLPlusRules, result.Mode)
	assert.Equal(t, 94, result.RiskScore)
	assert.Equal(t, models.RiskBandRed, result.RiskBand)
	assert.Len(t, result.TopDrivers, 3)
	assert.Equal(t, []string{"REQ-grpc"}, header.Get("x-request-id"))
}

func TestScoringService_GeneratesRequestID(t *testing.T) {
	conn := startServer(t, config.RateLimitConfig{})

	req := validRequest()
	req.Mode = "RULES_ONLY"
	result, err := score(context.Background(), conn, req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.RequestID, "REQ-"))
	assert.Equal(t, 93, result.RiskScore)
	assert.Nil(t, result.MLScore)
}

func TestScoringService_InvalidArgument(t *testing.T) {
	conn := startServer(t, config.RateLimitConfig{})

	req := validRequest()
	req.TenureMonths = nil
	req.PayFrequency = "daily"

	_, err := score(context.Background(), conn, req)
	require.Error(t, err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "tenure_months")
	assert.Contains(t, st.Message(), "pay_frequency")
}

func TestScoringService_RateLimited(t *testing.T) {
	conn := startServer(t, config.RateLimitConfig{Enabled: true, RPS: 0.01, Burst: 1})

	_, err := score(context.Background(), conn, validRequest())
	require.NoError(t, err)

	_, err = score(context.Background(), conn, validRequest())
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestHealthService(t *testing.T) {
	conn := startServer(t, config.RateLimitConfig{})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ScoringServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestInterceptorChain_RecoversPanic(t *testing.T) {
	chain := NewInterceptorChain(logger.NewNoopLogger(), nil, nil)
	info := &grpclib.UnaryServerInfo{FullMethod: ScoreFullMethod}

	_, err := chain.UnaryRecoveryInterceptor()(context.Background(), nil, info,
		func(context.Context, interface{}) (interface{}, error) {
			panic("risk score 101 outside [0,100]")
		})

	assert.Equal(t, codes.Internal, status.Code(err))
}
