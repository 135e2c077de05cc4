// internal/service/shipping/application/service.go
package application

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nexmall/internal/pkg/config"
	"nexmall/internal/pkg/logger"
	"nexmall/internal/service/shipping/domain"
	"nexmall/internal/service/shipping/domain/port"
)

// ShippingApplicationService 是发货网关：对内暴露按订单号的运单操作，
// 对外补全取件方信息后调用承运商，并把回执落库以便后续换 tracking id。
type ShippingApplicationService struct {
	repo    domain.ShipmentRepository
	carrier port.CarrierClient
	pickup  config.CarrierConfig
	tracer  trace.Tracer
}

func NewShippingApplicationService(
	repo domain.ShipmentRepository,
	carrier port.CarrierClient,
	pickup config.CarrierConfig,
	tracer trace.Tracer,
) *ShippingApplicationService {
	return &ShippingApplicationService{repo: repo, carrier: carrier, pickup: pickup, tracer: tracer}
}

// CreateShipment 下运单：承运商受理后把回执落库。
// 落库失败视为整体失败，调用方重试时承运商侧按订单号幂等。
func (s *ShippingApplicationService) CreateShipment(ctx context.Context, req *BookShipmentRequest) (*BookShipmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.CreateShipment")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", req.Order.OrderID))

	carrierOrder := &port.CarrierOrder{
		ID: req.Order.OrderID,

		PickName:     s.pickup.PickName,
		PickAddress:  s.pickup.PickAddress,
		PickProvince: s.pickup.PickProvince,
		PickDistrict: s.pickup.PickDistrict,
		PickWard:     s.pickup.PickWard,
		PickTel:      s.pickup.PickTel,

		Name:     req.Order.CustomerName,
		Address:  req.Order.Address,
		Province: req.Order.Province,
		District: req.Order.District,
		Ward:     req.Order.Ward,
		Hamlet:   req.Order.Hamlet,
		Tel:      req.Order.Tel,

		PickMoney:  int(req.Order.PickMoney),
		Value:      int(req.Order.Value),
		Note:       req.Order.Note,
		PickOption: pickOptionOrDefault(req.Order.PickOption),
	}
	if req.Order.IsFreeShip {
		carrierOrder.IsFreeShip = 1
	}

	products := make([]port.CarrierProduct, 0, len(req.Products))
	for _, p := range req.Products {
		quantity := p.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		products = append(products, port.CarrierProduct{
			Name:     p.Name,
			Price:    int(p.Price),
			Weight:   p.Weight,
			Quantity: quantity,
		})
	}

	booking, err := s.carrier.CreateOrder(ctx, carrierOrder, products)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "carrier rejected booking")
		return nil, err
	}

	record := &domain.ShipmentRecord{
		ID:                   uuid.NewString(),
		OrderID:              req.Order.OrderID,
		Label:                booking.Label,
		Area:                 booking.Area,
		TrackingID:           booking.TrackingID,
		Fee:                  booking.Fee,
		InsuranceFee:         booking.InsuranceFee,
		EstimatedPickTime:    booking.EstimatedPickTime,
		EstimatedDeliverTime: booking.EstimatedDeliverTime,
		StatusID:             booking.StatusID,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order_id", req.Order.OrderID).
		Int64("tracking_id", booking.TrackingID).
		Str("label", booking.Label).
		Msg("shipment booked")
	return &BookShipmentResponse{
		Success: true,
		Message: "shipment booked",
		Order: &BookingData{
			TrackingID:           booking.TrackingID,
			Label:                booking.Label,
			Fee:                  booking.Fee,
			InsuranceFee:         booking.InsuranceFee,
			EstimatedPickTime:    booking.EstimatedPickTime,
			EstimatedDeliverTime: booking.EstimatedDeliverTime,
		},
	}, nil
}

// CancelShipment 按订单号撤销运单。
func (s *ShippingApplicationService) CancelShipment(ctx context.Context, orderID string) (*CancelShipmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.CancelShipment")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	record, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	logID, err := s.carrier.CancelOrder(ctx, record.TrackingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "carrier refused cancellation")
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order_id", orderID).
		Int64("tracking_id", record.TrackingID).
		Msg("shipment canceled")
	return &CancelShipmentResponse{Success: true, Message: "shipment canceled", LogID: logID}, nil
}

// OrderStatus 查询承运商侧的运单状态。
func (s *ShippingApplicationService) OrderStatus(ctx context.Context, orderID string) (*TrackingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.OrderStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	record, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	detail, err := s.carrier.OrderStatus(ctx, record.TrackingID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &TrackingResponse{
		Success: true,
		Message: "success",
		Order: &TrackingData{
			LabelID:          detail.LabelID,
			OrderID:          detail.PartnerID,
			Status:           detail.Status,
			StatusText:       detail.StatusText,
			Created:          detail.Created,
			Modified:         detail.Modified,
			PickDate:         detail.PickDate,
			DeliverDate:      detail.DeliverDate,
			CustomerFullname: detail.CustomerFullname,
			CustomerTel:      detail.CustomerTel,
			Address:          detail.Address,
			ShipMoney:        detail.ShipMoney,
			Insurance:        detail.Insurance,
			Value:            detail.Value,
			Weight:           detail.Weight,
			PickMoney:        detail.PickMoney,
			IsFreeShip:       detail.IsFreeShip,
		},
	}, nil
}

// CalculateFee 运费试算，取件方地址来自配置。
// 承运商拉不通时返回 success=false 而不是错误，前端按无报价处理。
func (s *ShippingApplicationService) CalculateFee(ctx context.Context, req *FeeRequest) (*FeeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.CalculateFee")
	defer span.End()

	query := &port.FeeQuery{
		PickAddress:   s.pickup.PickAddress,
		PickProvince:  s.pickup.PickProvince,
		PickDistrict:  s.pickup.PickDistrict,
		PickWard:      s.pickup.PickWard,
		Address:       req.Address,
		Province:      req.Province,
		District:      req.District,
		Ward:          req.Ward,
		Value:         req.Value,
		Weight:        req.Weight,
		DeliverOption: req.DeliverOption,
	}
	if query.DeliverOption == "" {
		query.DeliverOption = "none"
	}

	quote, err := s.carrier.CalculateFee(ctx, query)
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("fee calculation failed")
		return &FeeResponse{Success: false, Message: "fee calculation failed"}, nil
	}
	return &FeeResponse{Success: true, Message: "success", Fee: quote}, nil
}

func pickOptionOrDefault(option string) string {
	if option == "" {
		return "cod"
	}
	return option
}
