package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the order engine. Registered on the default
// registry; exposed by the API server on /metrics.
var (
	OrdersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapd_orders_placed_total",
			Help: "Conditional orders accepted, by kind",
		},
		[]string{"kind"},
	)

	OrdersTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapd_orders_triggered_total",
			Help: "Conditional orders whose trigger fired and swap succeeded, by kind",
		},
		[]string{"kind"},
	)

	OrdersCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapd_orders_cancelled_total",
			Help: "Conditional orders cancelled before triggering",
		},
	)

	ActiveOrders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapd_active_orders",
			Help: "Orders currently being monitored",
		},
	)

	MonitorTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapd_monitor_ticks_total",
			Help: "Trigger evaluations across all orders",
		},
	)

	QuoteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapd_quote_errors_total",
			Help: "Transient price oracle failures during ticks",
		},
	)

	ExecutionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapd_execution_errors_total",
			Help: "Swap failures at trigger time (order stays active and retries)",
		},
	)

	SwapsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapd_swaps_executed_total",
			Help: "Successful swaps, by side",
		},
		[]string{"side"},
	)
)
