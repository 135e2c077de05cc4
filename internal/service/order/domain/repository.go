// internal/service/order/domain/repository.go
package domain

import "context"

// OrderPage 是一页订单查询结果。
type OrderPage struct {
	CurrentPage   int
	TotalPages    int
	TotalElements int64
	Orders        []*Order
}

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type OrderRepository interface {
	// Create 在一个事务里写入订单及其全部订单行。
	Create(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找订单（含订单行），不存在时返回 ErrOrderNotFound。
	FindByID(ctx context.Context, id string) (*Order, error)

	// TransitionStatus 以乐观锁方式推进订单状态：
	// 只有当行上的 version 仍等于 expectedVersion 时更新才生效，
	// 否则返回 ErrInvalidStatusTransition，调用方可重新读取后重试。
	TransitionStatus(ctx context.Context, orderID string, expectedVersion int64, next Status) error

	// Delete 硬删除订单，订单行随之级联删除。
	Delete(ctx context.Context, id string) error

	// FindByUser 按用户分页查询，status 为 nil 时不过滤，按下单时间倒序。
	FindByUser(ctx context.Context, userID string, status *Status, page, size int) (*OrderPage, error)

	// Search 管理端分页查询，query 为订单号前缀过滤，按下单时间倒序。
	Search(ctx context.Context, query string, page, size int) (*OrderPage, error)
}

// RevenueBucket 是一个时间段的营收汇总。
type RevenueBucket struct {
	Period string  `json:"time"`
	Total  float64 `json:"revenue"`
}

// TopProduct 是按营收排名的商品汇总行。
type TopProduct struct {
	ProductCode int64   `json:"id"`
	Name        string  `json:"name"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// TopCustomer 是按消费额排名的客户汇总行。
type TopCustomer struct {
	UserID       string  `json:"userId"`
	CustomerName string  `json:"customerName"`
	TotalOrders  int64   `json:"totalOrders"`
	TotalValue   float64 `json:"totalValue"`
}

// RevenueRepository 是只读报表投影，只统计已送达（DELIVERED）的订单。
type RevenueRepository interface {
	DailyRevenue(ctx context.Context) ([]RevenueBucket, error)
	WeeklyRevenue(ctx context.Context) ([]RevenueBucket, error)
	MonthlyRevenue(ctx context.Context) ([]RevenueBucket, error)
	YearlyRevenue(ctx context.Context) ([]RevenueBucket, error)
	AverageMonthlyRevenue(ctx context.Context) (float64, error)
	TopProductsByRevenue(ctx context.Context, timeframe string, limit int) ([]TopProduct, error)
	TopCustomersByValue(ctx context.Context, timeframe string, limit int) ([]TopCustomer, error)
}
