package metrics

import (
	"sync"

	"github.com/go-authgate/hybridauth/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is an alias for core.Recorder so callers can keep using metrics.Recorder.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	AuthDispatchTotal       *prometheus.CounterVec
	AuthAttemptsTotal       *prometheus.CounterVec
	AuthAttemptDuration     *prometheus.HistogramVec
	AuthLoginTotal          *prometheus.CounterVec
	AuthLogoutTotal         prometheus.Counter
	TokenValidationTotal    *prometheus.CounterVec
	TokenValidationDuration prometheus.Histogram
	SessionsCreatedTotal    prometheus.Counter

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns Prometheus-backed metrics registered on the default registry
// when enabled, otherwise NoopMetrics. Registration happens at most once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates all metrics and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AuthDispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_dispatch_total",
				Help: "Credential checks by routing decision",
			},
			[]string{"route"}, // local, ldap, ambiguous, lookup_error, rejected
		),
		AuthAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of backend authentication attempts",
			},
			[]string{"provider", "result"},
		),
		AuthAttemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auth_attempt_duration_seconds",
				Help:    "Time spent in a backend authentication attempt",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		AuthLoginTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of completed login requests",
			},
			[]string{"provider", "result"},
		),
		AuthLogoutTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_logout_total",
				Help: "Total number of logouts",
			},
		),
		TokenValidationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_validation_total",
				Help: "Total number of token validations",
			},
			[]string{"result"}, // valid, invalid, expired
		),
		TokenValidationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "auth_token_validation_duration_seconds",
				Help:    "Time spent validating a token",
				Buckets: prometheus.DefBuckets,
			},
		),
		SessionsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_created_total",
				Help: "Total number of sessions created",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		DatabaseQueryErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}
