package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK           = "ok"
	OutcomeUnsuccessful = "unsuccessful"
	OutcomeClientError  = "client_error"
	OutcomeServerError  = "server_error"
	OutcomeUnauthorized = "unauthorized"
	OutcomeTransport    = "transport"
)

// APIMetrics records every call the console makes to the HR API.
type APIMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrconsole",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HR API requests by resource, method and outcome.",
		}, []string{"resource", "method", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hrconsole",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HR API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

func (m *APIMetrics) Observe(resource, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(resource, method, outcome).Inc()
	m.Duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}
