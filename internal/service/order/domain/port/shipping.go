// internal/service/order/domain/port/shipping.go
package port

import (
	"context"

	"nexmall/internal/service/order/domain"
)

// ShipmentBooking 是运单预定成功后的回执。
type ShipmentBooking struct {
	TrackingID   int64
	Label        string
	Fee          float64
	InsuranceFee float64

	EstimatedPickTime    string
	EstimatedDeliverTime string
}

// CarrierTracking 是承运商返回的一次运单状态快照。
type CarrierTracking struct {
	CarrierStatus int // 承运商侧的数字状态码
	StatusText    string
	Created       string
	Modified      string
	PickDate      string
	DeliverDate   string
}

// ShippingService 是发货网关的能力接口。
type ShippingService interface {
	// CreateShipment 为订单在承运商处下运单。失败对调用方是致命的：
	// 状态不得推进。
	CreateShipment(ctx context.Context, order *domain.Order) (*ShipmentBooking, error)

	// CancelShipment 按订单号撤销已预定的运单。
	CancelShipment(ctx context.Context, orderID string) error

	// GetStatus 按订单号查询承运商侧的最新运单状态。
	GetStatus(ctx context.Context, orderID string) (*CarrierTracking, error)
}
