// internal/service/order/infrastructure/adapter/shipping_http_adapter.go
package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"nexmall/internal/pkg/httpclient"
	"nexmall/internal/service/order/domain"
	"nexmall/internal/service/order/domain/port"
)

// ShippingHTTPAdapter 实现 port.ShippingService，调用发货网关服务。
// 运单记录（tracking id 等）由发货网关自己持久化，这里只透传订单号。
type ShippingHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewShippingHTTPAdapter(client *httpclient.Client, baseURL string) *ShippingHTTPAdapter {
	return &ShippingHTTPAdapter{client: client, baseURL: baseURL}
}

type shippingOrderPayload struct {
	OrderID      string  `json:"orderId"`
	CustomerName string  `json:"customerName"`
	Address      string  `json:"address"`
	Province     string  `json:"province"`
	District     string  `json:"district"`
	Ward         string  `json:"ward"`
	Hamlet       string  `json:"hamlet"`
	Tel          string  `json:"tel"`
	Note         string  `json:"note"`
	Value        float64 `json:"value"`
	PickMoney    float64 `json:"pickMoney"`
	IsFreeShip   bool    `json:"isFreeship"`
	PickOption   string  `json:"pickOption"`
}

type shippingProductPayload struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type createShipmentRequest struct {
	Order    shippingOrderPayload     `json:"order"`
	Products []shippingProductPayload `json:"products"`
}

type createShipmentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *struct {
		TrackingID           int64   `json:"trackingId"`
		Label                string  `json:"label"`
		Fee                  float64 `json:"fee"`
		InsuranceFee         float64 `json:"insuranceFee"`
		EstimatedPickTime    string  `json:"estimatedPickTime"`
		EstimatedDeliverTime string  `json:"estimatedDeliverTime"`
	} `json:"order"`
}

type cancelShipmentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

type shipmentStatusResponse struct {
	Code int `json:"code"`
	Data *struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Order   *struct {
			Status      int    `json:"status"`
			StatusText  string `json:"statusText"`
			Created     string `json:"created"`
			Modified    string `json:"modified"`
			PickDate    string `json:"pickDate"`
			DeliverDate string `json:"deliverDate"`
		} `json:"order"`
	} `json:"data"`
}

// CreateShipment 到承运商下运单。网关返回 success=false 同样视为失败。
func (a *ShippingHTTPAdapter) CreateShipment(ctx context.Context, order *domain.Order) (*port.ShipmentBooking, error) {
	req := createShipmentRequest{
		Order: shippingOrderPayload{
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
			Address:      order.Address,
			Province:     order.Province,
			District:     order.District,
			Ward:         order.Ward,
			Hamlet:       order.Hamlet,
			Tel:          order.Tel,
			Note:         order.Note,
			Value:        order.Value,
			PickMoney:    order.PickMoney,
			IsFreeShip:   order.IsFreeShip,
			PickOption:   order.PickOption,
		},
	}
	for _, item := range order.Items {
		req.Products = append(req.Products, shippingProductPayload{
			Name:     item.Name,
			Weight:   item.Weight,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	var resp createShipmentResponse
	url := fmt.Sprintf("%s/shipping/create-order", a.baseURL)
	if err := a.client.PostJSON(ctx, url, req, &resp, nil); err != nil {
		return nil, errors.Wrap(err, "create shipment call failed")
	}
	if !resp.Success || resp.Order == nil {
		return nil, errors.Errorf("shipping gateway rejected booking: %s", resp.Message)
	}

	return &port.ShipmentBooking{
		TrackingID:           resp.Order.TrackingID,
		Label:                resp.Order.Label,
		Fee:                  resp.Order.Fee,
		InsuranceFee:         resp.Order.InsuranceFee,
		EstimatedPickTime:    resp.Order.EstimatedPickTime,
		EstimatedDeliverTime: resp.Order.EstimatedDeliverTime,
	}, nil
}

// CancelShipment 按订单号撤销运单。
func (a *ShippingHTTPAdapter) CancelShipment(ctx context.Context, orderID string) error {
	var resp cancelShipmentResponse
	url := fmt.Sprintf("%s/shipping/cancel/%s", a.baseURL, orderID)
	if err := a.client.PostJSON(ctx, url, nil, &resp, nil); err != nil {
		return errors.Wrap(err, "cancel shipment call failed")
	}
	if !resp.Success {
		return errors.Errorf("shipping gateway refused cancellation: %s", resp.Message)
	}
	return nil
}

// GetStatus 查询承运商侧的运单状态。
func (a *ShippingHTTPAdapter) GetStatus(ctx context.Context, orderID string) (*port.CarrierTracking, error) {
	var resp shipmentStatusResponse
	url := fmt.Sprintf("%s/shipping/order-status/%s", a.baseURL, orderID)
	if err := a.client.GetJSON(ctx, url, &resp, nil); err != nil {
		return nil, errors.Wrap(err, "shipment status call failed")
	}
	if resp.Data == nil || !resp.Data.Success || resp.Data.Order == nil {
		message := ""
		if resp.Data != nil {
			message = resp.Data.Message
		}
		return nil, errors.Errorf("shipping gateway returned no tracking data: %s", message)
	}

	order := resp.Data.Order
	return &port.CarrierTracking{
		CarrierStatus: order.Status,
		StatusText:    order.StatusText,
		Created:       order.Created,
		Modified:      order.Modified,
		PickDate:      order.PickDate,
		DeliverDate:   order.DeliverDate,
	}, nil
}
