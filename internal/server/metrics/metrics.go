// Package metrics exposes Prometheus collectors for the mail server.
//
// All methods are safe on a nil *Metrics, which turns instrumentation off.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gophmail"

// Delivery results.
const (
	DeliveryDelivered        = "delivered"
	DeliveryUnknownRecipient = "unknown_recipient"
)

type Metrics struct {
	connections       prometheus.Counter
	activeConnections prometheus.Gauge
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	deliveries        *prometheus.CounterVec
	drained           prometheus.Counter
	accounts          prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		connections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Accepted client connections.",
		}),
		activeConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Client connections currently being served.",
		}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Handled requests by operation and response status.",
		}, []string{"operation", "status"}),
		operationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Request handling time by operation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Message delivery attempts by result: delivered, unknown_recipient.",
		}, []string{"result"}),
		drained: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drained_messages_total",
			Help:      "Messages handed to recipients by receive_emails.",
		}),
		accounts: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Registered accounts.",
		}),
	}
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
	m.activeConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.activeConnections.Dec()
}

// ObserveOperation records one handled request. Callers pass a bounded set
// of operation names.
func (m *Metrics) ObserveOperation(operation, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) Delivery(result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) Drained(n int) {
	if m == nil {
		return
	}
	m.drained.Add(float64(n))
}

func (m *Metrics) SetAccounts(n int) {
	if m == nil {
		return
	}
	m.accounts.Set(float64(n))
}

func (m *Metrics) AccountRegistered() {
	if m == nil {
		return
	}
	m.accounts.Inc()
}
