package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes used as metric labels.
const (
	outcomeOK        = "ok"
	outcomeClient    = "client_error"
	outcomeServer    = "server_error"
	outcomeTransport = "transport_error"
)

// Metrics instruments remote calls per operation.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "council_client_requests_total",
		Help: "Council API calls by operation and outcome",
	}, []string{"operation", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "council_client_request_duration_seconds",
		Help:    "Latency of council API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	reg.MustRegister(requests, duration)
	return &Metrics{requests: requests, duration: duration}
}

func (m *Metrics) observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func outcomeFor(status int) string {
	switch {
	case status >= 500:
		return outcomeServer
	case status >= 400:
		return outcomeClient
	default:
		return outcomeOK
	}
}
