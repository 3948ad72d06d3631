package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the lead intake service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LeadsSubmittedTotal     prometheus.Counter
	LeadTransitionsTotal    *prometheus.CounterVec
	ValidationFailuresTotal *prometheus.CounterVec

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		LeadsSubmittedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "leadintake_leads_submitted_total",
				Help: "Total number of accepted lead submissions",
			},
		),
		LeadTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadintake_lead_transitions_total",
				Help: "Total number of applied lead state transitions",
			},
			[]string{"from", "to"},
		),
		ValidationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadintake_validation_failures_total",
				Help: "Submission validation failures by field",
			},
			[]string{"field"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadintake_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadintake_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.LeadsSubmittedTotal,
		m.LeadTransitionsTotal,
		m.ValidationFailuresTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) LeadSubmitted() {
	if m == nil {
		return
	}
	m.LeadsSubmittedTotal.Inc()
}

func (m *Metrics) LeadTransitioned(from, to string) {
	if m == nil {
		return
	}
	m.LeadTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ValidationFailed(fields map[string]string) {
	if m == nil {
		return
	}
	for field := range fields {
		m.ValidationFailuresTotal.WithLabelValues(field).Inc()
	}
}
