// internal/service/order/domain/port/stock.go
package port

import (
	"context"

	"nexmall/internal/service/order/domain"
)

// StockService 是库存网关的能力接口。
type StockService interface {
	// CheckStock 同步校验各明细库存是否充足，quantity 为需求量（正数）。
	// 返回库存不足的商品名列表，空列表表示全部充足。
	CheckStock(ctx context.Context, items []domain.StockAdjustment) ([]string, error)

	// AdjustStock 把一条带符号的库存调整指令投递到消息通道。
	// 投递语义为至少一次；调用方不等待网关消费结果。
	AdjustStock(ctx context.Context, cmd domain.StockUpdateCommand) error
}
