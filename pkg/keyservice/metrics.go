package keyservice

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// clientMetrics instruments the request executor. A nil *clientMetrics is
// valid and records nothing, so the client works without a registry.
type clientMetrics struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	factory := promauto.With(reg)
	return &clientMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keysvc_requests_total",
			Help: "Total key service requests issued, by operation",
		}, []string{"operation"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keysvc_request_failures_total",
			Help: "Total failed key service requests, by operation and classified kind",
		}, []string{"operation", "kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "keysvc_request_duration_seconds",
			Help:    "Key service round trip duration, by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// observe records one completed round trip.
func (m *clientMetrics) observe(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(op, string(KindOf(err))).Inc()
	}
}
