// internal/service/shipping/application/dto.go
package application

import "nexmall/internal/service/shipping/domain/port"

// BookShipmentRequest 是订单服务提交的下运单请求。
type BookShipmentRequest struct {
	Order    BookOrderPayload     `json:"order"`
	Products []BookProductPayload `json:"products"`
}

type BookOrderPayload struct {
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

type BookProductPayload struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// BookShipmentResponse 返回承运商回执的关键字段。
type BookShipmentResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Order   *BookingData `json:"order,omitempty"`
}

type BookingData struct {
	TrackingID           int64   `json:"trackingId"`
	Label                string  `json:"label"`
	Fee                  float64 `json:"fee"`
	InsuranceFee         float64 `json:"insuranceFee"`
	EstimatedPickTime    string  `json:"estimatedPickTime"`
	EstimatedDeliverTime string  `json:"estimatedDeliverTime"`
}

// CancelShipmentResponse 是撤单结果。
type CancelShipmentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LogID   string `json:"log_id,omitempty"`
}

// TrackingResponse 是运单状态查询结果。
type TrackingResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *TrackingData `json:"order,omitempty"`
}

type TrackingData struct {
	LabelID     string `json:"labelId"`
	OrderID     string `json:"orderId"`
	Status      int    `json:"status"`
	StatusText  string `json:"statusText"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
	PickDate    string `json:"pickDate"`
	DeliverDate string `json:"deliverDate"`

	CustomerFullname string  `json:"customerFullname"`
	CustomerTel      string  `json:"customerTel"`
	Address          string  `json:"address"`
	ShipMoney        float64 `json:"shipMoney"`
	Insurance        float64 `json:"insurance"`
	Value            float64 `json:"value"`
	Weight           float64 `json:"weight"`
	PickMoney        float64 `json:"pickMoney"`
	IsFreeShip       bool    `json:"isFreeship"`
}

// FeeRequest 是运费试算请求，取件方信息由服务端配置补全。
type FeeRequest struct {
	Address       string  `json:"address"`
	Province      string  `json:"province"`
	District      string  `json:"district"`
	Ward          string  `json:"ward"`
	Value         string  `json:"value"`
	Weight        float64 `json:"weight"`
	DeliverOption string  `json:"deliverOption"`
}

// FeeResponse 是运费报价。
type FeeResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Fee     *port.FeeQuote  `json:"fee,omitempty"`
}
