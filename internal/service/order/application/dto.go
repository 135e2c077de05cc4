// internal/service/order/application/dto.go
package application

import (
	"time"

	"nexmall/internal/service/order/domain"
	"nexmall/internal/service/order/domain/port"
)

// CreateOrderRequest 是创建订单用例的输入数据。
type CreateOrderRequest struct {
	UserID       string `json:"userId"`
	CustomerName string `json:"customerName"`

	Address  string `json:"address"`
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Hamlet   string `json:"hamlet"`
	Tel      string `json:"tel"`

	Value         float64 `json:"value"`
	PickMoney     float64 `json:"pickMoney"`
	IsFreeShip    bool    `json:"isFreeship"`
	PickOption    string  `json:"pickOption"`
	PaymentMethod string  `json:"paymentMethod"`
	Note          string  `json:"note"`

	OrderItems []OrderItemRequest `json:"orderItems"`
}

// OrderItemRequest 是一条下单明细。
type OrderItemRequest struct {
	ProductCode int64   `json:"productCode"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Weight      float64 `json:"weight"`
}

// OrderResponse 是对外返回的订单视图。
type OrderResponse struct {
	ID           string  `json:"idOrder"`
	UserID       string  `json:"idUser"`
	CustomerName string  `json:"customerName"`
	Status       int     `json:"status"`
	StatusText   string  `json:"statusText"`
	TotalPrice   float64 `json:"totalPrice"`
	Value        float64 `json:"value"`
	PickMoney    float64 `json:"pickMoney"`
	ShippingFee  float64 `json:"shippingFee"`
	IsFreeShip   bool    `json:"isFreeship"`
	PickOption   string  `json:"pickOption"`
	PaymentMethod string `json:"paymentMethod"`
	Note         string  `json:"note"`

	Address  string `json:"address"`
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Hamlet   string `json:"hamlet"`
	Tel      string `json:"tel"`

	OrderDate time.Time `json:"orderDate"`

	OrderItems []OrderItemResponse `json:"orderItems"`
	// Customer 由档案服务装饰，拉取失败时为 nil（降级为部分响应）。
	Customer *port.Profile `json:"customer,omitempty"`
}

// OrderItemResponse 是订单行视图。
type OrderItemResponse struct {
	ID          string  `json:"idOrderItem"`
	ProductCode int64   `json:"productCode"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Weight      float64 `json:"weight"`
}

// PageResponse 是统一的分页响应。
type PageResponse[T any] struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Elements      []T   `json:"elements"`
}

func (r *CreateOrderRequest) toOrderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(r.OrderItems))
	for _, item := range r.OrderItems {
		items = append(items, domain.OrderItem{
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Image:       item.Image,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Weight:      item.Weight,
		})
	}
	return items
}

func toOrderResponse(order *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Image:       item.Image,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Weight:      item.Weight,
		})
	}
	return &OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		CustomerName:  order.CustomerName,
		Status:        int(order.Status),
		StatusText:    order.Status.Description(),
		TotalPrice:    order.TotalPrice,
		Value:         order.Value,
		PickMoney:     order.PickMoney,
		ShippingFee:   order.ShippingFee,
		IsFreeShip:    order.IsFreeShip,
		PickOption:    order.PickOption,
		PaymentMethod: order.PaymentMethod,
		Note:          order.Note,
		Address:       order.Address,
		Province:      order.Province,
		District:      order.District,
		Ward:          order.Ward,
		Hamlet:        order.Hamlet,
		Tel:           order.Tel,
		OrderDate:     order.OrderDate,
		OrderItems:    items,
	}
}

func toOrderPageResponse(page *domain.OrderPage) *PageResponse[*OrderResponse] {
	elements := make([]*OrderResponse, 0, len(page.Orders))
	for _, order := range page.Orders {
		elements = append(elements, toOrderResponse(order))
	}
	return &PageResponse[*OrderResponse]{
		CurrentPage:   page.CurrentPage,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		Elements:      elements,
	}
}
