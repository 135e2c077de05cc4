// internal/service/order/infrastructure/mapper.go
package infrastructure

import (
	"nexmall/internal/service/order/domain"
)

// ToDomainOrder 把数据库模型转换为领域模型。
func ToDomainOrder(model *OrderModel) *domain.Order {
	items := make([]domain.OrderItem, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, domain.OrderItem{
			ID:          item.ID,
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Image:       item.Image,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Weight:      item.Weight,
		})
	}
	return &domain.Order{
		ID:            model.ID,
		UserID:        model.UserID,
		CustomerName:  model.CustomerName,
		Address:       model.Address,
		Province:      model.Province,
		District:      model.District,
		Ward:          model.Ward,
		Hamlet:        model.Hamlet,
		Tel:           model.Tel,
		TotalPrice:    model.TotalPrice,
		Value:         model.Value,
		PickMoney:     model.PickMoney,
		ShippingFee:   model.ShippingFee,
		IsFreeShip:    model.IsFreeShip,
		PickOption:    model.PickOption,
		PaymentMethod: model.PaymentMethod,
		Note:          model.Note,
		Status:        domain.Status(model.Status),
		Version:       model.Version,
		OrderDate:     model.OrderDate,
		Items:         items,
	}
}

// ToOrderModel 把领域模型转换为数据库模型。
func ToOrderModel(order *domain.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemModel{
			ID:          item.ID,
			OrderID:     order.ID,
			ProductCode: item.ProductCode,
			Name:        item.Name,
			Image:       item.Image,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Weight:      item.Weight,
		})
	}
	return &OrderModel{
		ID:            order.ID,
		UserID:        order.UserID,
		CustomerName:  order.CustomerName,
		Address:       order.Address,
		Province:      order.Province,
		District:      order.District,
		Ward:          order.Ward,
		Hamlet:        order.Hamlet,
		Tel:           order.Tel,
		TotalPrice:    order.TotalPrice,
		Value:         order.Value,
		PickMoney:     order.PickMoney,
		ShippingFee:   order.ShippingFee,
		IsFreeShip:    order.IsFreeShip,
		PickOption:    order.PickOption,
		PaymentMethod: order.PaymentMethod,
		Note:          order.Note,
		Status:        int(order.Status),
		Version:       order.Version,
		OrderDate:     order.OrderDate,
		Items:         items,
	}
}
