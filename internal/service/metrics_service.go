package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpLabels = []string{"method", "path", "status"}

// MetricsService owns the dev API's Prometheus registry. A nil *MetricsService is
// valid and records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	logins          *prometheus.CounterVec
	enquiries       prometheus.Counter
}

func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Dev API request latency by route template.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, httpLabels),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Dev API requests by route template and status.",
		}, httpLabels),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "council_logins_total",
			Help: "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		enquiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "council_enquiries_received_total",
			Help: "Enquiries accepted from the public form.",
		}),
	}
	m.registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.logins,
		m.enquiries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the exposition format, or 503 when metrics are off.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics disabled", http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *MetricsService) RecordLogin(role string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}

func (m *MetricsService) RecordEnquiry() {
	if m == nil {
		return
	}
	m.enquiries.Inc()
}
