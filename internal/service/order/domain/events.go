// internal/service/order/domain/events.go
package domain

// StockAdjustment 是一条带符号的相对库存变更。
// 网关只接受增量、不接受绝对值，并发调整可交换、重放安全。
type StockAdjustment struct {
	ProductCode int64   `json:"productCode"`
	Quantity    int     `json:"quantity"`
	Weight      float64 `json:"weight"`
}

// StockUpdateCommand 是投递到库存网关消息通道的指令，
// 一个订单事件（下单/取消/退货）对应一条指令。
type StockUpdateCommand struct {
	OrderID string            `json:"orderId"`
	Items   []StockAdjustment `json:"items"`
}
