// internal/service/order/application/reconciler.go
package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nexmall/internal/pkg/logger"
	"nexmall/internal/pkg/redis"
	"nexmall/internal/service/order/domain"
	"nexmall/internal/service/order/domain/port"
)

// StatusCache 缓存承运商状态码，避免分页列表把第三方接口打穿。
// *redis.Client 满足该接口；传 nil 表示不启用缓存。
type StatusCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Reconciler 在读路径上把承运商侧的运单状态同步回本地订单。
// 它是权威同步，不走管理端的流转表。
type Reconciler struct {
	repo     domain.OrderRepository
	shipping port.ShippingService
	cache    StatusCache
	cacheTTL time.Duration
	tracer   trace.Tracer
}

// NewReconciler 创建一个状态同步器，cache 可为 nil。
func NewReconciler(repo domain.OrderRepository, shipping port.ShippingService, cache StatusCache, cacheTTL time.Duration, tracer trace.Tracer) *Reconciler {
	return &Reconciler{
		repo:     repo,
		shipping: shipping,
		cache:    cache,
		cacheTTL: cacheTTL,
		tracer:   tracer,
	}
}

// Refresh 用承运商状态刷新一个订单，返回可能已更新的副本。
// 承运商调用失败只记日志不报错：读路径宁可返回本地的旧状态，
// 也不能因为第三方抖动而失败。
func (r *Reconciler) Refresh(ctx context.Context, order *domain.Order) *domain.Order {
	if !domain.NeedsCarrierRefresh(order.Status) {
		return order
	}

	ctx, span := r.tracer.Start(ctx, "reconciler.Refresh")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", order.ID))

	carrierStatus, ok := r.lookupCarrierStatus(ctx, order.ID)
	if !ok {
		return order
	}

	mapped := domain.FromCarrierStatus(carrierStatus)
	if !domain.KnownCarrierStatus(carrierStatus) {
		// 历史行为：未识别的承运商状态码一律落到 CANCELED。
		// 这很激进，但改掉会破坏兼容，先把它变得可观察。
		logger.Ctx(ctx).Warn().
			Str("order_id", order.ID).
			Int("carrier_status", carrierStatus).
			Msg("unrecognized carrier status code, falling back to CANCELED")
	}

	if mapped == order.Status {
		return order
	}

	if err := r.repo.TransitionStatus(ctx, order.ID, order.Version, mapped); err != nil {
		// 并发写丢失同步没有关系，下一次读取会再来一遍
		logger.Ctx(ctx).Warn().Err(err).
			Str("order_id", order.ID).
			Msg("failed to persist reconciled status")
		return order
	}

	reconcilerUpdatesTotal.Inc()
	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Stringer("from", order.Status).
		Stringer("to", mapped).
		Msg("order status reconciled from carrier")
	span.AddEvent("order status reconciled")

	updated := *order
	updated.Status = mapped
	updated.Version = order.Version + 1
	return &updated
}

// lookupCarrierStatus 先查缓存，miss 再调发货网关并回填缓存。
func (r *Reconciler) lookupCarrierStatus(ctx context.Context, orderID string) (int, bool) {
	cacheKey := "carrier:status:" + orderID

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
			if status, convErr := strconv.Atoi(cached); convErr == nil {
				return status, true
			}
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			logger.Ctx(ctx).Warn().Err(err).Msg("carrier status cache read failed")
		}
	}

	tracking, err := r.shipping.GetStatus(ctx, orderID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("order_id", orderID).
			Msg("could not fetch carrier status, keeping local status")
		return 0, false
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, strconv.Itoa(tracking.CarrierStatus), r.cacheTTL); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("carrier status cache write failed")
		}
	}
	return tracking.CarrierStatus, true
}
