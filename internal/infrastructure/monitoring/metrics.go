package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/turtacn/xpx/internal/domain/models"
	"github.com/turtacn/xpx/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	ScoreDecisions     *prometheus.CounterVec
	ScoreValue         *prometheus.HistogramVec
	ScoreLatency       *prometheus.HistogramVec
	ValidationFailures *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	RateLimitHits      *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScoreDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "score_decisions_total",
				Help:      "Total number of scoring decisions by mode and band.",
			},
			[]string{"mode", "band"},
		),
		ScoreValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "score_value",
				Help:      "Distribution of final risk scores.",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"mode"},
		),
		ScoreLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "score_latency_seconds",
				Help:      "Latency of scoring evaluations.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"mode"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "score_validation_failures_total",
				Help:      "Total number of rejected request fields.",
			},
			[]string{"field"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "rate_limit_hits_total",
				Help:      "Total number of rate limit hits.",
			},
			[]string{"scope"},
		),
	}
}

// RecordDecision records a completed scoring decision.
func (m *Metrics) RecordDecision(mode models.Mode, band models.RiskBand, score int, duration time.Duration) {
	m.ScoreDecisions.WithLabelValues(string(mode), string(band)).Inc()
	m.ScoreValue.WithLabelValues(string(mode)).Observe(float64(score))
	m.ScoreLatency.WithLabelValues(string(mode)).Observe(duration.Seconds())
}

// RecordValidationFailure counts one rejected field.
func (m *Metrics) RecordValidationFailure(field string) {
	m.ValidationFailures.WithLabelValues(field).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(scope constants.RateLimitScope) {
	m.RateLimitHits.WithLabelValues(string(scope)).Inc()
}
