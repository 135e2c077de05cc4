// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"
)

// OrderModel 对应数据库中的 orders 表。
// 列名沿用历史库表（id_order / id_user / order_date 等）。
type OrderModel struct {
	ID           string `gorm:"column:id_order;primaryKey;size:36"`
	UserID       string `gorm:"column:id_user;index"`
	CustomerName string `gorm:"column:customer_name"`

	Status  int   `gorm:"not null"`
	Version int64 `gorm:"not null;default:0"` // 乐观锁版本

	TotalPrice  float64 `gorm:"column:total_price"`
	Value       float64 `gorm:"not null;default:0"` // 保价金额
	PickMoney   float64 `gorm:"column:pick_money;not null;default:0"`
	ShippingFee float64 `gorm:"column:shipping_fee"`
	IsFreeShip  bool    `gorm:"column:is_freeship;default:false"`
	PickOption  string  `gorm:"column:pick_option;default:'cod'"`

	PaymentMethod string `gorm:"column:payment_method"`
	Note          string

	Address  string
	Province string
	District string
	Ward     string
	Hamlet   string
	Tel      string

	OrderDate time.Time `gorm:"column:order_date;not null;autoCreateTime"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 对应 order_item 表，商品信息为下单时的快照。
type OrderItemModel struct {
	ID          string  `gorm:"column:id_order_item;primaryKey;size:36"`
	OrderID     string  `gorm:"column:id_order;index;size:36"`
	ProductCode int64   `gorm:"column:product_code;not null"`
	Name        string  `gorm:"column:name"`
	Image       string  `gorm:"column:image"`
	Quantity    int     `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Weight      float64
}

func (OrderItemModel) TableName() string {
	return "order_item"
}
