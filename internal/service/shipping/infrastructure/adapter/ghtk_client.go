// internal/service/shipping/infrastructure/adapter/ghtk_client.go
package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"nexmall/internal/pkg/httpclient"
	"nexmall/internal/service/shipping/domain/port"
)

// GhtkClient 实现 port.CarrierClient，对接 GHTK 风格的承运商 API。
// 认证走 Token / X-Client-Source 请求头。
type GhtkClient struct {
	client      *httpclient.Client
	baseURL     string
	token       string
	partnerCode string
}

func NewGhtkClient(client *httpclient.Client, baseURL, token, partnerCode string) *GhtkClient {
	return &GhtkClient{client: client, baseURL: baseURL, token: token, partnerCode: partnerCode}
}

func (c *GhtkClient) headers() http.Header {
	h := http.Header{}
	h.Set("Token", c.token)
	h.Set("X-Client-Source", c.partnerCode)
	return h
}

type createOrderRequest struct {
	Products []port.CarrierProduct `json:"products"`
	Order    *port.CarrierOrder    `json:"order"`
}

type createOrderResponse struct {
	Success        bool                 `json:"success"`
	Message        string               `json:"message"`
	WarningMessage string               `json:"warning_message"`
	Order          *port.CarrierBooking `json:"order"`
}

func (c *GhtkClient) CreateOrder(ctx context.Context, order *port.CarrierOrder, products []port.CarrierProduct) (*port.CarrierBooking, error) {
	var resp createOrderResponse
	url := c.baseURL + "/services/shipment/order"
	req := createOrderRequest{Products: products, Order: order}
	if err := c.client.PostJSON(ctx, url, req, &resp, c.headers()); err != nil {
		return nil, errors.Wrap(err, "carrier create order call failed")
	}
	if !resp.Success || resp.Order == nil {
		return nil, errors.Errorf("carrier rejected order %s: %s", order.ID, resp.Message)
	}
	return resp.Order, nil
}

type cancelOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

func (c *GhtkClient) CancelOrder(ctx context.Context, trackingID int64) (string, error) {
	var resp cancelOrderResponse
	url := fmt.Sprintf("%s/services/shipment/cancel/%d", c.baseURL, trackingID)
	if err := c.client.PostJSON(ctx, url, nil, &resp, c.headers()); err != nil {
		return "", errors.Wrap(err, "carrier cancel call failed")
	}
	if !resp.Success {
		return "", errors.Errorf("carrier refused to cancel tracking %d: %s", trackingID, resp.Message)
	}
	return resp.LogID, nil
}

type orderStatusResponse struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message"`
	Order   *port.CarrierTrackingDetail `json:"order"`
}

func (c *GhtkClient) OrderStatus(ctx context.Context, trackingID int64) (*port.CarrierTrackingDetail, error) {
	var resp orderStatusResponse
	url := fmt.Sprintf("%s/services/shipment/v2/%d", c.baseURL, trackingID)
	if err := c.client.GetJSON(ctx, url, &resp, c.headers()); err != nil {
		return nil, errors.Wrap(err, "carrier status call failed")
	}
	if !resp.Success || resp.Order == nil {
		return nil, errors.Errorf("carrier returned no status for tracking %d: %s", trackingID, resp.Message)
	}
	return resp.Order, nil
}

type feeResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Fee     *port.FeeQuote `json:"fee"`
}

func (c *GhtkClient) CalculateFee(ctx context.Context, query *port.FeeQuery) (*port.FeeQuote, error) {
	var resp feeResponse
	url := c.baseURL + "/services/shipment/fee"
	if err := c.client.PostJSON(ctx, url, query, &resp, c.headers()); err != nil {
		return nil, errors.Wrap(err, "carrier fee call failed")
	}
	if !resp.Success || resp.Fee == nil {
		return nil, errors.Errorf("carrier returned no fee quote: %s", resp.Message)
	}
	return resp.Fee, nil
}
