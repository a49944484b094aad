// Package metrics defines the prometheus instrumentation for the write
// path. The metrics set is owned by the embedding process and handed to
// the core by reference; the core only increments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

const namespace = "ldapd"

// Metrics holds the write-path collectors.
type Metrics struct {
	// WriteRequests counts write requests entering a handler, including
	// replays of queued requests.
	WriteRequests *prometheus.CounterVec
	// Results counts delivered results by operation and result code.
	Results *prometheus.CounterVec
	// QueuedRequests counts requests deferred because the namespace
	// write slot was held.
	QueuedRequests *prometheus.CounterVec
	// QueueRejected counts requests refused because the retry queue was
	// at capacity.
	QueueRejected *prometheus.CounterVec
	// QueueDepth tracks the current retry-queue length per namespace.
	QueueDepth *prometheus.GaugeVec
}

// New creates the metrics set and registers it with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WriteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_requests_total",
			Help:      "Write requests entering a handler, replays included.",
		}, []string{"op"}),
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_results_total",
			Help:      "Results delivered per operation and result code.",
		}, []string{"op", "result"}),
		QueuedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queued_requests_total",
			Help:      "Requests queued while the namespace write slot was busy.",
		}, []string{"suffix"}),
		QueueRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_rejected_total",
			Help:      "Requests rejected because the retry queue was full.",
		}, []string{"suffix"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Current retry-queue length per namespace.",
		}, []string{"suffix"}),
	}
	reg.MustRegister(
		m.WriteRequests,
		m.Results,
		m.QueuedRequests,
		m.QueueRejected,
		m.QueueDepth,
	)
	return m
}

// NewUnregistered creates a metrics set on a private registry, for tests
// and embedders that do not expose prometheus.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveResult records one delivered result.
func (m *Metrics) ObserveResult(op string, code ldap.ResultCode) {
	m.Results.WithLabelValues(op, code.String()).Inc()
}
