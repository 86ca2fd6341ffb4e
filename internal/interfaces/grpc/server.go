// Package grpc exposes the scoring service over gRPC with a JSON codec.
package grpc

import (
	"context"
	"fmt"
	"net"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/turtacn/xpx/internal/application/service"
	"github.com/turtacn/xpx/internal/config"
	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/internal/infrastructure/ratelimit"
	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/logger"
)

// Server wraps a gRPC server with the scoring service registered.
type Server struct {
	gs     *grpclib.Server
	health *health.Server
	addr   string
	logger logger.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(cfg *config.Config, scoring service.ScoringAppService, metrics *monitoring.Metrics, log logger.Logger) *Server {
	var limiter *ratelimit.GlobalLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewGlobalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	chain := NewInterceptorChain(log, limiter, metrics)

	gs := grpclib.NewServer(grpclib.ChainUnaryInterceptor(chain.Unary()...))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(ScoringServiceName, healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if cfg.Server.EnableReflection {
		reflection.Register(gs)
	}

	RegisterScoringServiceServer(gs, NewScoringGRPCService(scoring))

	return &Server{
		gs:     gs,
		health: healthSrv,
		addr:   cfg.Server.GRPCAddr(),
		logger: log,
	}
}

// Start listens on the configured address and serves until stopped.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

// Serve accepts connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info(context.Background(), "gRPC server listening", logger.String("address", lis.Addr().String()))
	if err := s.gs.Serve(lis); err != nil && err != grpclib.ErrServerStopped {
		return err
	}
	return nil
}

// Stop drains in-flight calls, forcing a hard stop when ctx expires.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info(ctx, "gRPC server shutting down")
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.gs.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn(ctx, "gRPC graceful stop timed out, forcing", logger.String("service", constants.ServiceName))
		s.gs.Stop()
	}
}
