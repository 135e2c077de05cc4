// internal/service/order/infrastructure/adapter/stock_http_adapter.go
package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"nexmall/internal/pkg/httpclient"
	"nexmall/internal/service/order/domain"
)

// StockHTTPAdapter 通过商品服务的 HTTP 接口做同步库存预检。
// 异步的库存调整走 kafka 适配器，两者共同实现 port.StockService。
type StockHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewStockHTTPAdapter(client *httpclient.Client, baseURL string) *StockHTTPAdapter {
	return &StockHTTPAdapter{client: client, baseURL: baseURL}
}

type checkStockItem struct {
	ProductCode int64   `json:"productCode"`
	Quantity    int     `json:"quantity"`
	Weight      float64 `json:"weight"`
}

type checkStockResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Data    []string `json:"data"`
}

// CheckStock 返回库存不足的商品名列表。
func (a *StockHTTPAdapter) CheckStock(ctx context.Context, items []domain.StockAdjustment) ([]string, error) {
	payload := make([]checkStockItem, 0, len(items))
	for _, item := range items {
		payload = append(payload, checkStockItem{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			Weight:      item.Weight,
		})
	}

	var resp checkStockResponse
	url := fmt.Sprintf("%s/stock/check", a.baseURL)
	if err := a.client.PostJSON(ctx, url, payload, &resp, nil); err != nil {
		return nil, errors.Wrap(err, "stock check call failed")
	}
	return resp.Data, nil
}
