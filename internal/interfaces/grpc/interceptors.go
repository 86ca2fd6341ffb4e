package grpc

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/turtacn/xpx/internal/infrastructure/monitoring"
	"github.com/turtacn/xpx/internal/infrastructure/ratelimit"
	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/logger"
	"github.com/turtacn/xpx/pkg/utils"
)

// InterceptorChain holds the dependencies of the unary interceptors.
type InterceptorChain struct {
	log     logger.Logger
	limiter *ratelimit.GlobalLimiter
	metrics *monitoring.Metrics
}

// NewInterceptorChain creates the chain. A nil limiter disables throttling.
func NewInterceptorChain(log logger.Logger, limiter *ratelimit.GlobalLimiter, metrics *monitoring.Metrics) *InterceptorChain {
	return &InterceptorChain{
		log:     log,
		limiter: limiter,
		metrics: metrics,
	}
}

// Unary returns the interceptors in the order they should run.
func (ic *InterceptorChain) Unary() []grpclib.UnaryServerInterceptor {
	return []grpclib.UnaryServerInterceptor{
		ic.UnaryRecoveryInterceptor(),
		ic.UnaryRequestIDInterceptor(),
		ic.UnaryLoggingInterceptor(),
		ic.UnaryRateLimitInterceptor(),
	}
}

// UnaryRecoveryInterceptor turns a handler panic into codes.Internal.
func (ic *InterceptorChain) UnaryRecoveryInterceptor() grpclib.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpclib.UnaryServerInfo,
		handler grpclib.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				ic.log.Error(ctx, "gRPC handler panic recovered", fmt.Errorf("%v", r),
					logger.String("method", info.FullMethod),
					logger.String("stack", string(debug.Stack())),
				)
				err = status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}

// UnaryRequestIDInterceptor propagates x-request-id metadata, generating one
// when absent, and echoes it in the response header.
func (ic *InterceptorChain) UnaryRequestIDInterceptor() grpclib.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpclib.UnaryServerInfo,
		handler grpclib.UnaryHandler,
	) (interface{}, error) {
		requestID := requestIDFromMetadata(ctx)
		if requestID == "" {
			requestID = utils.NewRequestID()
		}
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		// Fails only outside a real RPC, e.g. when the handler is called directly.
		_ = grpclib.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, requestID))

		return handler(ctx, req)
	}
}

// UnaryLoggingInterceptor logs one line per call.
func (ic *InterceptorChain) UnaryLoggingInterceptor() grpclib.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpclib.UnaryServerInfo,
		handler grpclib.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()

		resp, err := handler(ctx, req)

		ic.log.Info(ctx, "gRPC request completed",
			logger.String("method", info.FullMethod),
			logger.Duration("duration", time.Since(startTime)),
			logger.String("status", status.Code(err).String()),
		)

		return resp, err
	}
}

// UnaryRateLimitInterceptor throttles Score calls against the shared bucket.
// Health checks are never throttled.
func (ic *InterceptorChain) UnaryRateLimitInterceptor() grpclib.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpclib.UnaryServerInfo,
		handler grpclib.UnaryHandler,
	) (interface{}, error) {
		if ic.limiter == nil || info.FullMethod != ScoreFullMethod {
			return handler(ctx, req)
		}

		decision := ic.limiter.Allow()
		if !decision.Allowed {
			if ic.metrics != nil {
				ic.metrics.RecordRateLimitHit(constants.RateLimitScopeGlobal)
			}
			ic.log.Warn(ctx, "Rate limit exceeded",
				logger.String("method", info.FullMethod),
				logger.Int("limit", decision.Limit),
			)
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded, retry after %s", decision.RetryAfter)
		}

		return handler(ctx, req)
	}
}
