package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports assistant counters in Prometheus format.
type Metrics struct {
	registry      *prometheus.Registry
	replies       *prometheus.CounterVec
	outboundCalls *prometheus.CounterVec
}

// NewMetrics creates the exporter on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.replies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtconnect",
			Subsystem: "assistant",
			Name:      "replies_total",
			Help:      "Assistant replies by dialogue branch",
		},
		[]string{"branch"},
	)
	m.outboundCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtconnect",
			Name:      "outbound_calls_total",
			Help:      "Calls to external collaborators by target and outcome",
		},
		[]string{"target", "status"},
	)

	m.registry.MustRegister(m.replies, m.outboundCalls)
	return m
}

// ObserveBranch counts one reply for the given branch.
func (m *Metrics) ObserveBranch(branch string) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(branch).Inc()
}

// ObserveCall counts one outbound call.
func (m *Metrics) ObserveCall(target string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.outboundCalls.WithLabelValues(target, status).Inc()
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
