// internal/service/order/infrastructure/adapter/stock_gateway.go
package adapter

// StockGateway 把同步预检（HTTP）和异步调整（Kafka）组合成
// 完整的 port.StockService 实现。
type StockGateway struct {
	*StockHTTPAdapter
	*StockKafkaAdapter
}

func NewStockGateway(httpAdapter *StockHTTPAdapter, kafkaAdapter *StockKafkaAdapter) *StockGateway {
	return &StockGateway{
		StockHTTPAdapter:  httpAdapter,
		StockKafkaAdapter: kafkaAdapter,
	}
}
