// Package metrics exposes simulation gauges over Prometheus. The tick loop
// owns all updates; the HTTP handler only reads.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the engine's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Frame         prometheus.Gauge
	ActiveByKind  *prometheus.GaugeVec
	FreeByKind    *prometheus.GaugeVec
	HouseCredits  *prometheus.GaugeVec
	OrdersApplied prometheus.Counter
	OreDelivered  prometheus.Counter
	UnitsKilled   prometheus.Counter
	TickSeconds   prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Frame: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ironvein", Name: "frame",
			Help: "Current simulation frame.",
		}),
		ActiveByKind: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ironvein", Name: "entities_active",
			Help: "Active entities per kind pool.",
		}, []string{"kind"}),
		FreeByKind: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ironvein", Name: "entities_free",
			Help: "Free slots per kind pool.",
		}, []string{"kind"}),
		HouseCredits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ironvein", Name: "house_credits",
			Help: "Credits held per house.",
		}, []string{"house"}),
		OrdersApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ironvein", Name: "orders_applied_total",
			Help: "Orders accepted by the input system.",
		}),
		OreDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ironvein", Name: "ore_delivered_total",
			Help: "Ore credits banked at refineries.",
		}),
		UnitsKilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ironvein", Name: "units_killed_total",
			Help: "Entities destroyed by damage.",
		}),
		TickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ironvein", Name: "tick_seconds",
			Help:    "Wall time spent per simulation tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	m.registry.MustRegister(
		m.Frame, m.ActiveByKind, m.FreeByKind, m.HouseCredits,
		m.OrdersApplied, m.OreDelivered, m.UnitsKilled, m.TickSeconds,
	)
	return m
}

// Handler serves the scrape endpoint for this registry only.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
