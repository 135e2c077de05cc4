// internal/service/order/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 协调器内部链路的指标；HTTP 层的指标在 interfaces 包里。
var (
	reconcilerUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexmall_reconciler_updates_total",
		Help: "Orders whose status was updated from the carrier on the read path.",
	})

	stockCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexmall_stock_commands_total",
		Help: "Stock adjustment commands by reason and outcome.",
	}, []string{"reason", "outcome"})
)
