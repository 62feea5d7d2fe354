package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is a no-op so tests can skip registry setup.
type Metrics struct {
	UpstreamRequests        *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	RateLimitDecisions      *prometheus.CounterVec
	CartOperations          *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_upstream_requests_total",
			Help: "Outbound upstream API calls by method and outcome",
		}, []string{"method", "outcome"}),
		UpstreamRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_upstream_request_duration_seconds",
			Help:    "Outbound upstream API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		RateLimitDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_ratelimit_decisions_total",
			Help: "Rate limiter admission decisions by outcome",
		}, []string{"outcome"}),
		CartOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Local cart store operations by type",
		}, []string{"operation"}),
	}
}

// ObserveUpstreamRequest records one outbound call.
func (m *Metrics) ObserveUpstreamRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(method, outcome).Inc()
	m.UpstreamRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// IncrementRateLimitDecision records one admission decision.
func (m *Metrics) IncrementRateLimitDecision(allowed bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if !allowed {
		outcome = "rejected"
	}
	m.RateLimitDecisions.WithLabelValues(outcome).Inc()
}

// IncrementCartOperation records one cart store operation.
func (m *Metrics) IncrementCartOperation(operation string) {
	if m == nil {
		return
	}
	m.CartOperations.WithLabelValues(operation).Inc()
}
