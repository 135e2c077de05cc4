// internal/service/order/domain/order.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order 是订单聚合的根实体。
// 收件与金额信息在下单时从请求里拷贝落库，之后商品目录的任何变更
// 都不会影响历史订单。
type Order struct {
	ID           string
	UserID       string
	CustomerName string

	// 收件地址
	Address  string
	Province string
	District string
	Ward     string
	Hamlet   string
	Tel      string

	TotalPrice    float64
	Value         float64 // 保价金额
	PickMoney     float64 // 代收货款（COD）
	ShippingFee   float64
	IsFreeShip    bool
	PickOption    string
	PaymentMethod string
	Note          string

	Status    Status
	Version   int64 // 乐观锁版本，由仓储维护
	OrderDate time.Time

	Items []OrderItem
}

// OrderItem 是订单行，商品信息为下单时的快照。
type OrderItem struct {
	ID          string
	ProductCode int64
	Name        string
	Image       string
	Quantity    int
	Price       float64
	Weight      float64
}

// NewOrder 工厂函数：校验并组装一个待确认状态的新订单。
func NewOrder(userID, customerName string, items []OrderItem) (*Order, error) {
	if userID == "" {
		return nil, ErrValidation.WithMessage("order requires a customer id")
	}
	if len(items) == 0 {
		return nil, ErrValidation.WithMessage("order requires at least one line item")
	}

	var total float64
	for i := range items {
		item := &items[i]
		if item.Quantity <= 0 {
			return nil, ErrValidation.WithMessage("line item quantity must be positive")
		}
		if item.Price < 0 {
			return nil, ErrValidation.WithMessage("line item price must not be negative")
		}
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		total += item.Price * float64(item.Quantity)
	}

	return &Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		CustomerName: customerName,
		TotalPrice: total,
		Status:     StatusPendingConfirmation,
		OrderDate:  time.Now(),
		Items:      items,
	}, nil
}

// Validate 校验金额类不变量，在持久化前调用。
func (o *Order) Validate() error {
	if o.PickMoney < 0 {
		return ErrValidation.WithMessage("COD amount must not be negative")
	}
	if o.Value < 0 {
		return ErrValidation.WithMessage("insured value must not be negative")
	}
	if len(o.Items) == 0 {
		return ErrValidation.WithMessage("order requires at least one line item")
	}
	if !o.Status.Valid() {
		return ErrValidation.WithMessage("order status is not a defined code")
	}
	return nil
}

// StockAdjustments 按订单明细生成库存调整量。
// sign 为 -1 时是下单扣减，+1 时是取消/退货回补；
// 网关侧按相对增量累加，重放是安全的。
func (o *Order) StockAdjustments(sign int) []StockAdjustment {
	adjustments := make([]StockAdjustment, 0, len(o.Items))
	for _, item := range o.Items {
		adjustments = append(adjustments, StockAdjustment{
			ProductCode: item.ProductCode,
			Quantity:    sign * item.Quantity,
			Weight:      item.Weight,
		})
	}
	return adjustments
}
