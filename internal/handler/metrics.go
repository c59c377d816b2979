package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of orders placed",
		},
	)

	ordersCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "orders",
			Name:      "cancelled_total",
			Help:      "Total number of orders cancelled",
		},
	)

	returnsRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "orders",
			Name:      "returns_requested_total",
			Help:      "Total number of return requests",
		},
	)

	statusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "orders",
			Name:      "status_updates_total",
			Help:      "Total number of order status updates",
		},
		[]string{"status"},
	)

	paymentsInitiated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "payments",
			Name:      "initiated_total",
			Help:      "Total number of payment initiations",
		},
	)

	paymentsVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "payments",
			Name:      "verified_total",
			Help:      "Total number of payment verification attempts",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		ordersPlaced,
		ordersCancelled,
		returnsRequested,
		statusUpdates,

		paymentsInitiated,
		paymentsVerified,
	)
}
