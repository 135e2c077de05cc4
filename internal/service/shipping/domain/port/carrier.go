// internal/service/shipping/domain/port/carrier.go
package port

import "context"

// CarrierOrder 是提交给承运商的运单主体，字段名遵循承运商 API 的下划线风格。
type CarrierOrder struct {
	ID string `json:"id"`

	PickName     string `json:"pick_name"`
	PickAddress  string `json:"pick_address"`
	PickProvince string `json:"pick_province"`
	PickDistrict string `json:"pick_district"`
	PickWard     string `json:"pick_ward,omitempty"`
	PickTel      string `json:"pick_tel"`

	Name     string `json:"name"`
	Address  string `json:"address"`
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Hamlet   string `json:"hamlet,omitempty"`
	Tel      string `json:"tel"`

	PickMoney int    `json:"pick_money"`
	Value     int    `json:"value"`
	Note      string `json:"note,omitempty"`
	// IsFreeShip 承运商按 0/1 约定
	IsFreeShip int    `json:"is_freeship"`
	PickOption string `json:"pick_option"`
}

// CarrierProduct 是运单里的一条货物明细。
type CarrierProduct struct {
	Name        string  `json:"name"`
	Price       int     `json:"price,omitempty"`
	Weight      float64 `json:"weight"`
	Quantity    int     `json:"quantity"`
	ProductCode string  `json:"product_code,omitempty"`
}

// CarrierBooking 是承运商受理运单后的回执。
type CarrierBooking struct {
	PartnerID            string  `json:"partner_id"`
	Label                string  `json:"label"`
	Area                 int     `json:"area"`
	Fee                  float64 `json:"fee"`
	InsuranceFee         float64 `json:"insurance_fee"`
	EstimatedPickTime    string  `json:"estimated_pick_time"`
	EstimatedDeliverTime string  `json:"estimated_deliver_time"`
	StatusID             int     `json:"status_id"`
	TrackingID           int64   `json:"tracking_id"`
}

// CarrierTrackingDetail 是承运商侧的运单当前状态。
type CarrierTrackingDetail struct {
	LabelID     string `json:"label_id"`
	PartnerID   string `json:"partner_id"`
	Status      int    `json:"status"`
	StatusText  string `json:"status_text"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
	PickDate    string `json:"pick_date"`
	DeliverDate string `json:"deliver_date"`

	CustomerFullname string  `json:"customer_fullname"`
	CustomerTel      string  `json:"customer_tel"`
	Address          string  `json:"address"`
	ShipMoney        float64 `json:"ship_money"`
	Insurance        float64 `json:"insurance"`
	Value            float64 `json:"value"`
	Weight           float64 `json:"weight"`
	PickMoney        float64 `json:"pick_money"`
	IsFreeShip       bool    `json:"is_freeship"`
}

// FeeQuery 是运费试算的输入。
type FeeQuery struct {
	PickAddress  string `json:"pick_address"`
	PickProvince string `json:"pick_province"`
	PickDistrict string `json:"pick_district"`
	PickWard     string `json:"pick_ward,omitempty"`

	Address  string `json:"address"`
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`

	Value         string  `json:"value"`
	Weight        float64 `json:"weight"`
	DeliverOption string  `json:"deliver_option"`
}

// FeeQuote 是承运商返回的运费报价。
type FeeQuote struct {
	Name         string `json:"name"`
	Fee          int    `json:"fee"`
	InsuranceFee int    `json:"insurance_fee"`
	Delivery     bool   `json:"delivery"`
}

// CarrierClient 是对第三方承运商（GHTK 风格 API）的抽象。
type CarrierClient interface {
	CreateOrder(ctx context.Context, order *CarrierOrder, products []CarrierProduct) (*CarrierBooking, error)
	CancelOrder(ctx context.Context, trackingID int64) (logID string, err error)
	OrderStatus(ctx context.Context, trackingID int64) (*CarrierTrackingDetail, error)
	CalculateFee(ctx context.Context, query *FeeQuery) (*FeeQuote, error)
}
