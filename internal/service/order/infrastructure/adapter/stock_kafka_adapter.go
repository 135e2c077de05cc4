// internal/service/order/infrastructure/adapter/stock_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"nexmall/internal/pkg/mq"
	"nexmall/internal/service/order/domain"
)

// StockKafkaAdapter 把库存调整指令写入 update-stock 主题。
// writer 配置为 RequireAll，消息被接受即进入持久化日志，
// 之后由库存网关按至少一次语义消费；指令是相对增量，重放安全。
type StockKafkaAdapter struct {
	writer *kafka.Writer
}

func NewStockKafkaAdapter(writer *kafka.Writer) *StockKafkaAdapter {
	return &StockKafkaAdapter{writer: writer}
}

// AdjustStock 投递一条调整指令，以订单号为分区键保证同单有序。
func (a *StockKafkaAdapter) AdjustStock(ctx context.Context, cmd domain.StockUpdateCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return errors.Wrap(err, "marshal stock update command")
	}
	if err := mq.ProduceMessage(ctx, a.writer, []byte(cmd.OrderID), payload); err != nil {
		return errors.Wrap(err, "produce stock update command")
	}
	return nil
}

// Close 关闭底层的 kafka writer。
func (a *StockKafkaAdapter) Close() error {
	return a.writer.Close()
}
