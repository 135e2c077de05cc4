package interfaces

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 订单服务的业务指标，/metrics 暴露。
var (
	ordersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexmall_orders_created_total",
		Help: "Total number of orders accepted and persisted.",
	})

	orderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexmall_order_transitions_total",
		Help: "Order status transitions, by target status and outcome.",
	}, []string{"target_status", "outcome"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexmall_order_api_errors_total",
		Help: "API errors by business error code.",
	}, []string{"code"})
)
