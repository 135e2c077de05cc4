// internal/service/order/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"nexmall/internal/pkg/logger"
	"nexmall/internal/service/order/domain"
	"nexmall/internal/service/order/domain/port"
)

// OrderApplicationService 是订单生命周期协调器：
// 它持有状态机、决定何时调用库存/发货网关、并在取消和退货时
// 触发补偿。所有外部依赖都通过 port 注入。
type OrderApplicationService struct {
	orderRepo domain.OrderRepository

	stock    port.StockService
	shipping port.ShippingService
	profile  port.ProfileService

	ruleEngine       port.RuleEngine
	freeShippingRule string

	locker     port.OrderLocker
	reconciler *Reconciler

	reconcileConcurrency int
	tracer               trace.Tracer
}

// NewOrderApplicationService 组装协调器。
func NewOrderApplicationService(
	orderRepo domain.OrderRepository,
	stock port.StockService,
	shipping port.ShippingService,
	profile port.ProfileService,
	ruleEngine port.RuleEngine,
	freeShippingRule string,
	locker port.OrderLocker,
	reconciler *Reconciler,
	reconcileConcurrency int,
	tracer trace.Tracer,
) *OrderApplicationService {
	if reconcileConcurrency <= 0 {
		reconcileConcurrency = 4
	}
	return &OrderApplicationService{
		orderRepo:            orderRepo,
		stock:                stock,
		shipping:             shipping,
		profile:              profile,
		ruleEngine:           ruleEngine,
		freeShippingRule:     freeShippingRule,
		locker:               locker,
		reconciler:           reconciler,
		reconcileConcurrency: reconcileConcurrency,
		tracer:               tracer,
	}
}

// CreateOrder 创建订单：先同步校验库存，全部充足才落库；
// 落库成功后把负增量的扣减指令异步投递给库存网关。
// 扣减投递失败不回滚订单（接受的最终一致窗口），只记日志。
func (s *OrderApplicationService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()

	order, err := domain.NewOrder(req.UserID, req.CustomerName, req.toOrderItems())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	order.Address = req.Address
	order.Province = req.Province
	order.District = req.District
	order.Ward = req.Ward
	order.Hamlet = req.Hamlet
	order.Tel = req.Tel
	order.Value = req.Value
	order.PickMoney = req.PickMoney
	order.IsFreeShip = req.IsFreeShip
	order.PickOption = req.PickOption
	order.PaymentMethod = req.PaymentMethod
	order.Note = req.Note

	if err := order.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 包邮规则：请求没标包邮时按配置的 CEL 规则判定
	if !order.IsFreeShip && s.freeShippingRule != "" && s.ruleEngine != nil {
		eligible, err := s.ruleEngine.Evaluate(s.freeShippingRule, map[string]interface{}{
			"total":    order.TotalPrice,
			"quantity": totalQuantity(order),
		})
		if err != nil {
			// 规则坏了不应挡下单，按不包邮处理
			logger.Ctx(ctx).Warn().Err(err).Msg("free shipping rule evaluation failed")
		} else {
			order.IsFreeShip = eligible
		}
	}

	// 库存预检：任何一条明细不足都直接拒单，不创建部分订单、不动库存
	insufficient, err := s.stock.CheckStock(ctx, order.StockAdjustments(1))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock check failed")
		return nil, err
	}
	if len(insufficient) > 0 {
		span.AddEvent("order rejected: out of stock")
		return nil, domain.NewOutOfStockError(insufficient)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	// 订单已落库之后才投递扣减指令；两步之间进程崩溃会留下一个
	// 没有占到库存的订单，这是已知且接受的缺口。
	s.dispatchStockAdjustments(ctx, order, -1, "reserve")

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int("items", len(order.Items)).
		Msg("order created")
	return toOrderResponse(order), nil
}

// AdvanceStatus 是管理端的状态推进入口：按流转表执行副作用后再落库。
// 副作用失败整个操作失败，状态保持原样，可安全重试。
func (s *OrderApplicationService) AdvanceStatus(ctx context.Context, orderID, statusName string) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.AdvanceStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.requested_status", statusName),
	)

	next, err := domain.ParseStatus(statusName)
	if err != nil {
		return nil, domain.ErrValidation.WithMessage(err.Error())
	}

	var updated *domain.Order
	work := func() error {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		effect, allowed := domain.TransitionSideEffect(order.Status, next)
		if !allowed {
			return domain.ErrInvalidStatusTransition
		}

		// 先执行对外副作用，成功后才提交新状态；
		// 承运商调用超时或拒绝时订单停在原状态等待重试。
		switch effect {
		case domain.SideEffectBookShipment:
			if _, err := s.shipping.CreateShipment(ctx, order); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "shipment booking failed")
				return err
			}
		case domain.SideEffectCancelShipmentAndRestore:
			if err := s.shipping.CancelShipment(ctx, order.ID); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "shipment cancellation failed")
				return err
			}
		}

		if err := s.orderRepo.TransitionStatus(ctx, order.ID, order.Version, next); err != nil {
			return err
		}

		// 补偿只在真正进入 CANCELED / RETURNED 后投递
		if effect == domain.SideEffectRestoreStock || effect == domain.SideEffectCancelShipmentAndRestore {
			s.dispatchStockAdjustments(ctx, order, 1, "restore")
		}

		order.Status = next
		order.Version++
		updated = order
		return nil
	}

	if s.locker != nil {
		err = s.locker.WithLock(ctx, orderID, work)
	} else {
		err = work()
	}
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order_id", orderID).
		Stringer("status", updated.Status).
		Msg("order status advanced")
	return toOrderResponse(updated), nil
}

// CancelOrder 是买家取消入口，只允许待确认或待取件的订单。
// 待取件说明运单已经存在，先撤运单再回补库存。
func (s *OrderApplicationService) CancelOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CancelableByCustomer(order.Status) {
		span.AddEvent("cancel rejected by status")
		return nil, domain.ErrCannotCancelOrder
	}

	if order.Status == domain.StatusWaitingForPickup {
		if err := s.shipping.CancelShipment(ctx, order.ID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "shipment cancellation failed")
			return nil, err
		}
	}

	if err := s.orderRepo.TransitionStatus(ctx, order.ID, order.Version, domain.StatusCanceled); err != nil {
		return nil, err
	}

	s.dispatchStockAdjustments(ctx, order, 1, "restore")

	order.Status = domain.StatusCanceled
	order.Version++
	logger.Ctx(ctx).Info().Str("order_id", orderID).Msg("order canceled by customer")
	return toOrderResponse(order), nil
}

// GetOrder 读取单个订单：先做承运商状态同步，再用档案服务装饰。
// 档案拉取失败降级为部分响应。
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrder")
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order = s.reconciler.Refresh(ctx, order)

	resp := toOrderResponse(order)
	if profile, err := s.profile.GetProfile(ctx, order.UserID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("user_id", order.UserID).
			Msg("profile lookup failed, returning partial response")
	} else {
		resp.Customer = profile
	}
	return resp, nil
}

// ListOrders 管理端分页查询，逐单做状态同步（有界并发，失败吞掉）。
func (s *OrderApplicationService) ListOrders(ctx context.Context, page, size int, query string) (*PageResponse[*OrderResponse], error) {
	ctx, span := s.tracer.Start(ctx, "app.ListOrders")
	defer span.End()

	result, err := s.orderRepo.Search(ctx, query, page, size)
	if err != nil {
		return nil, err
	}

	s.refreshAll(ctx, result.Orders)
	return toOrderPageResponse(result), nil
}

// ListUserOrders 按用户分页查询，可按状态过滤。
func (s *OrderApplicationService) ListUserOrders(ctx context.Context, userID string, status *domain.Status, page, size int) (*PageResponse[*OrderResponse], error) {
	ctx, span := s.tracer.Start(ctx, "app.ListUserOrders")
	defer span.End()

	result, err := s.orderRepo.FindByUser(ctx, userID, status, page, size)
	if err != nil {
		return nil, err
	}

	s.refreshAll(ctx, result.Orders)
	return toOrderPageResponse(result), nil
}

// DeleteOrder 管理端硬删除。
func (s *OrderApplicationService) DeleteOrder(ctx context.Context, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "app.DeleteOrder")
	defer span.End()

	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, orderID)
}

// refreshAll 对一页订单做有界并发的状态同步，任何失败都不影响响应。
func (s *OrderApplicationService) refreshAll(ctx context.Context, orders []*domain.Order) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.reconcileConcurrency)
	for i := range orders {
		g.Go(func() error {
			orders[i] = s.reconciler.Refresh(gctx, orders[i])
			return nil
		})
	}
	_ = g.Wait()
}

// dispatchStockAdjustments 把库存调整指令投递给网关。
// 投递是“已落库之后”的旁路动作：失败只记日志，不影响主操作结果。
func (s *OrderApplicationService) dispatchStockAdjustments(ctx context.Context, order *domain.Order, sign int, reason string) {
	cmd := domain.StockUpdateCommand{
		OrderID: order.ID,
		Items:   order.StockAdjustments(sign),
	}
	if err := s.stock.AdjustStock(ctx, cmd); err != nil {
		stockCommandsTotal.WithLabelValues(reason, "error").Inc()
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", order.ID).
			Str("reason", reason).
			Msg("failed to dispatch stock adjustment command")
		return
	}
	stockCommandsTotal.WithLabelValues(reason, "ok").Inc()
	logger.Ctx(ctx).Debug().
		Str("order_id", order.ID).
		Str("reason", reason).
		Int("items", len(cmd.Items)).
		Msg("stock adjustment command dispatched")
}

func totalQuantity(order *domain.Order) int {
	var total int
	for _, item := range order.Items {
		total += item.Quantity
	}
	return total
}
