// Package observability defines the Prometheus metrics quillmate exports.
//
// Metrics are registered on a caller-supplied registry so tests and the
// CLI can each use their own. All recording methods are safe on a nil
// *Metrics, which lets one-shot commands run without instrumentation.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quillmate"

// Outcome labels for assistant requests.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds every collector the application records into.
type Metrics struct {
	AssistantRequests *prometheus.CounterVec
	AssistantLatency  *prometheus.HistogramVec
	Reconciles        *prometheus.CounterVec
	Autosaves         *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AssistantRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Assistant requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		AssistantLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "latency_seconds",
			Help:      "Time spent waiting on the language model",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		Reconciles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Reconciled responses by operation and result kind",
		}, []string{"operation", "kind"}),
		Autosaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosave_total",
			Help:      "Auto-save attempts by status",
		}, []string{"status"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		gatherer: reg,
	}
}

// ObserveAssistant records one assistant round trip.
func (m *Metrics) ObserveAssistant(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AssistantRequests.WithLabelValues(operation, outcome).Inc()
	m.AssistantLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveReconcile records the kind of result a reconciliation produced.
func (m *Metrics) ObserveReconcile(operation, kind string) {
	if m == nil {
		return
	}
	m.Reconciles.WithLabelValues(operation, kind).Inc()
}

// ObserveAutosave records an auto-save attempt.
func (m *Metrics) ObserveAutosave(err error) {
	if m == nil {
		return
	}
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeError
	}
	m.Autosaves.WithLabelValues(status).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
