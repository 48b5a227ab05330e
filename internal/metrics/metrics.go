// Package metrics holds the prometheus collectors for the storefront core.
// Every method is safe to call on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "primo"

type Metrics struct {
	ordersPlaced     prometheus.Counter
	revenue          prometheus.Counter
	statusChanges    *prometheus.CounterVec
	promotionLookups *prometheus.CounterVec
	redemptions      *prometheus.CounterVec
	stockAdjustments prometheus.Counter
	lowStock         prometheus.Gauge
	eventsDropped    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ordersPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders created at checkout.",
		}),
		revenue: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_total",
			Help:      "Sum of order totals in currency units.",
		}),
		statusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Order status updates by target status.",
		}, []string{"status"}),
		promotionLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotion_lookups_total",
			Help:      "Promotion code lookups by result.",
		}, []string{"result"}),
		redemptions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_redemptions_total",
			Help:      "Loyalty point redemptions by result.",
		}, []string{"result"}),
		stockAdjustments: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Administrative stock level changes.",
		}),
		lowStock: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_ingredients",
			Help:      "Ingredients below their low-stock threshold.",
		}),
		eventsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_dropped_total",
			Help:      "Order events that could not be published.",
		}),
	}
}

func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.revenue.Add(total)
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) PromotionLookup(result string) {
	if m == nil {
		return
	}
	m.promotionLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) Redemption(result string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(result).Inc()
}

func (m *Metrics) StockAdjusted() {
	if m == nil {
		return
	}
	m.stockAdjustments.Inc()
}

func (m *Metrics) SetLowStock(n int) {
	if m == nil {
		return
	}
	m.lowStock.Set(float64(n))
}

func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}
