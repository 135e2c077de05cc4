// internal/service/shipping/domain/shipment.go
package domain

import (
	"context"

	"github.com/pkg/errors"
)

// ErrShipmentNotFound 表示订单还没有对应的运单记录。
var ErrShipmentNotFound = errors.New("shipment record not found")

// ShipmentRecord 是承运商运单在本地的映射，按订单号索引。
// 取消和查状态都要先从这里换回承运商侧的 tracking id。
type ShipmentRecord struct {
	ID      string
	OrderID string

	Label        string
	Area         int
	TrackingID   int64
	Fee          float64
	InsuranceFee float64

	EstimatedPickTime    string
	EstimatedDeliverTime string
	StatusID             int
}

// ShipmentRepository 持久化运单记录。
type ShipmentRepository interface {
	Save(ctx context.Context, record *ShipmentRecord) error
	FindByOrderID(ctx context.Context, orderID string) (*ShipmentRecord, error)
}
