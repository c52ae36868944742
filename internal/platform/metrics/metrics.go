package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	TransitionsTotal *prometheus.CounterVec
	ReportsTotal     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leavedesk_http_requests_total",
			Help: "HTTP requests by method, route and status class.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leavedesk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leavedesk_status_transitions_total",
			Help: "Leave request status transitions by outcome.",
		}, []string{"outcome"}),
		ReportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leavedesk_reports_rendered_total",
			Help: "Leave detail PDF reports rendered.",
		}),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.TransitionsTotal, m.ReportsTotal)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
