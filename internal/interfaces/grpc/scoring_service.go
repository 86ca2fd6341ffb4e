package grpc

import (
	"context"
	"net/http"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/turtacn/xpx/internal/application/dto"
	"github.com/turtacn/xpx/internal/application/service"
	"github.com/turtacn/xpx/internal/domain/models"
	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/errors"
)

const (
	// ScoringServiceName is the fully qualified gRPC service name
	ScoringServiceName = "xpx.scoring.v1.ScoringService"

	// ScoreFullMethod is the full method name of the unary Score call
	ScoreFullMethod = "/" + ScoringServiceName + "/Score"

	requestIDMetadataKey = "x-request-id"
)

// ScoringServiceServer is the server API for ScoringService.
type ScoringServiceServer interface {
	Score(context.Context, *dto.ScoreRequest) (*models.ScoringResult, error)
}

// RegisterScoringServiceServer registers srv with the gRPC server.
func RegisterScoringServiceServer(s grpclib.ServiceRegistrar, srv ScoringServiceServer) {
	s.RegisterService(&scoringServiceDesc, srv)
}

var scoringServiceDesc = grpclib.ServiceDesc{
	ServiceName: ScoringServiceName,
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Score", Handler: scoreHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "xpx/scoring/v1/scoring.proto",
}

func scoreHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.ScoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).Score(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: ScoreFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).Score(ctx, req.(*dto.ScoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ScoringGRPCService adapts the scoring application service to gRPC.
type ScoringGRPCService struct {
	scoring service.ScoringAppService
}

// NewScoringGRPCService creates the gRPC adapter.
func NewScoringGRPCService(scoring service.ScoringAppService) *ScoringGRPCService {
	return &ScoringGRPCService{scoring: scoring}
}

// Score implements ScoringServiceServer.
func (s *ScoringGRPCService) Score(ctx context.Context, req *dto.ScoreRequest) (*models.ScoringResult, error) {
	requestID, _ := ctx.Value(constants.ContextKeyRequestID).(string)

	result, err := s.scoring.Score(ctx, requestID, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return result, nil
}

// toStatus maps a service error onto the closest gRPC code.
func toStatus(err error) error {
	se := errors.Normalize(err)
	var code codes.Code
	switch se.HTTPStatus() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = codes.InvalidArgument
	case http.StatusNotFound:
		code = codes.NotFound
	case http.StatusTooManyRequests:
		code = codes.ResourceExhausted
	default:
		code = codes.Internal
	}
	return status.Error(code, se.Error())
}

// requestIDFromMetadata returns the caller-supplied request id, if any.
// Oversized ids are ignored, matching the HTTP middleware.
func requestIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if ids := md.Get(requestIDMetadataKey); len(ids) > 0 && len(ids[0]) <= 128 {
		return ids[0]
	}
	return ""
}
