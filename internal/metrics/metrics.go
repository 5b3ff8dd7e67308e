// Package metrics exposes prometheus instrumentation for the order API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	OrdersCreated      *prometheus.CounterVec
	OrdersBlocked      *prometheus.CounterVec
	StockRejections    *prometheus.CounterVec
	SideEffectFailures *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates and registers the service collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framex",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of orders created.",
		}, []string{"merchant", "payment_method"}),
		OrdersBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framex",
			Subsystem: "orders",
			Name:      "blocked_total",
			Help:      "Total number of orders rejected by the fraud gate.",
		}, []string{"merchant"}),
		StockRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framex",
			Subsystem: "orders",
			Name:      "stock_rejections_total",
			Help:      "Total number of orders rejected for insufficient stock.",
		}, []string{"merchant"}),
		SideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framex",
			Subsystem: "orders",
			Name:      "side_effect_failures_total",
			Help:      "Total number of non-fatal side-effect failures by kind.",
		}, []string{"kind"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "framex",
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "path", "status"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.OrdersCreated,
		m.OrdersBlocked,
		m.StockRejections,
		m.SideEffectFailures,
		m.RequestDuration,
	)

	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
