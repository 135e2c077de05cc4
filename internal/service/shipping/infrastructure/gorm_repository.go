// internal/service/shipping/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"nexmall/internal/service/shipping/domain"
)

// ShipmentModel 映射 shipping_info 表。
type ShipmentModel struct {
	ID      string `gorm:"column:id;primaryKey;type:varchar(36)"`
	OrderID string `gorm:"column:order_id;type:varchar(36);uniqueIndex"`

	Label        string  `gorm:"column:label"`
	Area         int     `gorm:"column:area"`
	TrackingID   int64   `gorm:"column:tracking_id"`
	Fee          float64 `gorm:"column:fee"`
	InsuranceFee float64 `gorm:"column:insurance_fee"`

	EstimatedPickTime    string `gorm:"column:estimated_pick_time"`
	EstimatedDeliverTime string `gorm:"column:estimated_deliver_time"`
	StatusID             int    `gorm:"column:status_id"`
}

func (ShipmentModel) TableName() string { return "shipping_info" }

// GormShipmentRepository 是 domain.ShipmentRepository 的 MySQL 实现。
type GormShipmentRepository struct {
	db *gorm.DB
}

func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// AutoMigrate 建表（开发环境；生产用迁移脚本）。
func (r *GormShipmentRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&ShipmentModel{})
}

// Save 以订单号为冲突键做 upsert，重复下单覆盖旧回执。
func (r *GormShipmentRepository) Save(ctx context.Context, record *domain.ShipmentRecord) error {
	model := toShipmentModel(record)
	err := r.db.WithContext(ctx).
		Where("order_id = ?", record.OrderID).
		Assign(model).
		FirstOrCreate(&ShipmentModel{}).Error
	if err != nil {
		return errors.Wrapf(err, "save shipment for order %s failed", record.OrderID)
	}
	return nil
}

func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.ShipmentRecord, error) {
	var model ShipmentModel
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, errors.Wrapf(err, "find shipment for order %s failed", orderID)
	}
	return toShipmentRecord(&model), nil
}

func toShipmentModel(record *domain.ShipmentRecord) *ShipmentModel {
	return &ShipmentModel{
		ID:                   record.ID,
		OrderID:              record.OrderID,
		Label:                record.Label,
		Area:                 record.Area,
		TrackingID:           record.TrackingID,
		Fee:                  record.Fee,
		InsuranceFee:         record.InsuranceFee,
		EstimatedPickTime:    record.EstimatedPickTime,
		EstimatedDeliverTime: record.EstimatedDeliverTime,
		StatusID:             record.StatusID,
	}
}

func toShipmentRecord(model *ShipmentModel) *domain.ShipmentRecord {
	return &domain.ShipmentRecord{
		ID:                   model.ID,
		OrderID:              model.OrderID,
		Label:                model.Label,
		Area:                 model.Area,
		TrackingID:           model.TrackingID,
		Fee:                  model.Fee,
		InsuranceFee:         model.InsuranceFee,
		EstimatedPickTime:    model.EstimatedPickTime,
		EstimatedDeliverTime: model.EstimatedDeliverTime,
		StatusID:             model.StatusID,
	}
}
