// Package metrics owns the Prometheus collectors exposed on the ops endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rewear"

// Metrics groups the server collectors behind a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	exchanges   *prometheus.CounterVec
	pointsMoved prometheus.Counter
	txRetries   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "grpc",
				Name:      "requests_total",
				Help:      "Total number of gRPC requests handled.",
			},
			[]string{"method", "code"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "grpc",
				Name:      "request_duration_seconds",
				Help:      "Duration of gRPC requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method"},
		),
		exchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "exchange",
				Name:      "attempts_total",
				Help:      "Exchange attempts by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		pointsMoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "exchange",
				Name:      "points_transferred_total",
				Help:      "Points moved from redeemers to item owners.",
			},
		),
		txRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "tx_retries_total",
				Help:      "Transactions re-run after a transient failure.",
			},
		),
	}

	m.Registry.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.exchanges,
		m.pointsMoved,
		m.txRetries,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveExchange counts one RequestSwap, Redeem or RespondSwap outcome.
func (m *Metrics) ObserveExchange(op, outcome string) {
	if m == nil {
		return
	}
	m.exchanges.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) AddPointsTransferred(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.pointsMoved.Add(float64(n))
}

func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}
