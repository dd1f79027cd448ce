package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"streamshop/internal/domain/model"
)

func init() {
	register(
		ordersCreatedTotal,
		ordersFulfilledTotal,
		ordersCancelledTotal,
		assignFailedTotal,
		ordersByStatus,
	)
}

var (
	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders submitted through the storefront, by platform.",
		},
		[]string{"platform"},
	)

	ordersFulfilledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_fulfilled_total",
			Help: "Orders fulfilled by an account assignment, by platform.",
		},
		[]string{"platform"},
	)

	ordersCancelledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_cancelled_total",
			Help: "Orders cancelled before fulfillment, by platform.",
		},
		[]string{"platform"},
	)

	assignFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assign_failed_total",
			Help: "Failed assignment attempts by reason.",
		},
		[]string{"reason"}, // 'no_inventory', 'invalid_state'
	)

	ordersByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orders_by_status",
			Help: "Current number of orders by status.",
		},
		[]string{"status"},
	)
)

func IncOrdersCreated(platform string) { ordersCreatedTotal.WithLabelValues(platform).Inc() }

func IncOrdersFulfilled(platform string) { ordersFulfilledTotal.WithLabelValues(platform).Inc() }

func IncOrdersCancelled(platform string) { ordersCancelledTotal.WithLabelValues(platform).Inc() }

func IncAssignFailed(reason string) { assignFailedTotal.WithLabelValues(reason).Inc() }

func SetOrdersByStatus(counts map[model.OrderStatus]int) {
	statuses := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusPaid,
		model.OrderStatusFulfilled,
		model.OrderStatusCancelled,
	}
	for _, status := range statuses {
		if count, ok := counts[status]; ok {
			ordersByStatus.WithLabelValues(string(status)).Set(float64(count))
		}
	}
}
