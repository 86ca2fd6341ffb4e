// Package constants defines system-wide constants for the XPX scoring service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is the name used for tracing, logging and metric namespaces
	ServiceName = "xpx-scoring-service"

	// ServiceTitle is the human readable title exposed on /version
	ServiceTitle = "XPX Score → Explain → Act"

	// MetricsNamespace prefixes every Prometheus metric
	MetricsNamespace = "xpx"
)

// ServiceVersion is overridden at build time with -ldflags "-X".
var ServiceVersion = "0.2.0"

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for values stored on a context.Context
type ContextKey string

const (
	// ContextKeyRequestID carries the request identifier
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID carries the trace identifier
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyLogger carries a request-scoped logger
	ContextKeyLogger ContextKey = "logger"
)

// ================================================================================
// HTTP Headers
// ================================================================================

const (
	// HeaderRequestID is the header used to propagate request identifiers
	HeaderRequestID = "X-Request-ID"

	// HeaderRateLimitLimit advertises the configured burst
	HeaderRateLimitLimit = "X-RateLimit-Limit"

	// HeaderRetryAfter tells a throttled client when to retry
	HeaderRetryAfter = "Retry-After"

	// RequestIDPrefix is prepended to generated request identifiers
	RequestIDPrefix = "REQ-"
)

// ================================================================================
// Error Codes
// ================================================================================

// ErrorCode is the machine readable code carried by error responses
type ErrorCode string

const (
	ErrCodeInvalidRequest    ErrorCode = "invalid_request"
	ErrCodeValidationFailed  ErrorCode = "validation_failed"
	ErrCodeNotFound          ErrorCode = "not_found"
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"
	ErrCodeServerError       ErrorCode = "server_error"
)

// ================================================================================
// Rate Limiting
// ================================================================================

// RateLimitScope labels what a limiter is keyed on
type RateLimitScope string

const (
	// RateLimitScopeIP limits per client IP address
	RateLimitScopeIP RateLimitScope = "ip"

	// RateLimitScopeGlobal limits all callers together
	RateLimitScopeGlobal RateLimitScope = "global"
)

const (
	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40
	DefaultRateLimitTTL   = 10 * time.Minute
)

// ================================================================================
// Server Defaults
// ================================================================================

const (
	DefaultHTTPPort        = 8000
	DefaultGRPCPort        = 50051
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
)

// EnvironmentProduction disables debug-only surfaces such as pprof.
const EnvironmentProduction = "production"
