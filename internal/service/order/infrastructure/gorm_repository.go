// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"nexmall/internal/service/order/domain"
)

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现。
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例。
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// AutoMigrate 建表（开发环境；生产用迁移脚本）。
func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// Create 在一个事务里写入订单头和全部订单行。
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := ToOrderModel(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	// 数据库分配的创建时间回写到聚合
	order.OrderDate = model.OrderDate
	return nil
}

// FindByID 读取订单及其订单行。
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Items").Where("id_order = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

// TransitionStatus 用版本号做 CAS 更新：
// UPDATE orders SET status=?, version=version+1 WHERE id_order=? AND version=?
// 行没更新到说明并发写已经抢先，本次流转按非法流转拒绝。
func (r *GormOrderRepository) TransitionStatus(ctx context.Context, orderID string, expectedVersion int64, next domain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id_order = ? AND version = ?", orderID, expectedVersion).
		Updates(map[string]interface{}{
			"status":  int(next),
			"version": expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

// Delete 硬删除订单，订单行在同一事务里级联删除。
func (r *GormOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_order = ?", id).Delete(&OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id_order = ?", id).Delete(&OrderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrOrderNotFound
		}
		return nil
	})
}

// FindByUser 按用户分页查询，status 为 nil 时不过滤。
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID string, status *domain.Status, page, size int) (*domain.OrderPage, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id_user = ?", userID)
	if status != nil {
		query = query.Where("status = ?", int(*status))
	}
	return r.paginate(query, page, size)
}

// Search 管理端查询，query 为订单号前缀。
func (r *GormOrderRepository) Search(ctx context.Context, queryStr string, page, size int) (*domain.OrderPage, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{})
	if queryStr != "" {
		query = query.Where("LOWER(id_order) LIKE LOWER(?)", queryStr+"%")
	}
	return r.paginate(query, page, size)
}

func (r *GormOrderRepository) paginate(query *gorm.DB, page, size int) (*domain.OrderPage, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var models []OrderModel
	err := query.
		Preload("Items").
		Order("order_date DESC").
		Offset(page * size).
		Limit(size).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, ToDomainOrder(&models[i]))
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &domain.OrderPage{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalElements: total,
		Orders:        orders,
	}, nil
}
