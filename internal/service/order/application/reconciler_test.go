package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexmall/internal/pkg/redis"
	"nexmall/internal/service/order/domain"
)

func newTestReconciler(repo *memOrderRepo, shipping *fakeShipping, cache StatusCache) *Reconciler {
	return NewReconciler(repo, shipping, cache, time.Minute, noopTracer())
}

// 本地视为已结算的四个状态不得触发任何承运商调用。
func TestRefresh_SkipsSettledStates(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusPendingConfirmation,
		domain.StatusReturnRequested,
		domain.StatusDelivered,
		domain.StatusCanceled,
	} {
		t.Run(status.String(), func(t *testing.T) {
			order := seedOrder(status)
			repo := newMemOrderRepo(order)
			shipping := &fakeShipping{}
			reconciler := newTestReconciler(repo, shipping, nil)

			got := reconciler.Refresh(context.Background(), order)

			assert.Same(t, order, got)
			assert.Zero(t, shipping.statusCalls)
			assert.Zero(t, repo.transitionCalls)
		})
	}
}

func TestRefresh_PersistsWhenCarrierDiffers(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	shipping := &fakeShipping{tracking: carrierStatus(6)}
	reconciler := newTestReconciler(repo, shipping, nil)

	got := reconciler.Refresh(context.Background(), order)

	assert.Equal(t, domain.StatusDelivered, got.Status)
	assert.Equal(t, order.Version+1, got.Version)
	assert.Equal(t, domain.StatusDelivered, repo.get(order.ID).Status)
	// 入参副本不被修改
	assert.Equal(t, domain.StatusShipping, order.Status)
}

func TestRefresh_NoPersistWhenStatusMatches(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	shipping := &fakeShipping{tracking: carrierStatus(5)}
	reconciler := newTestReconciler(repo, shipping, nil)

	got := reconciler.Refresh(context.Background(), order)

	assert.Same(t, order, got)
	assert.Zero(t, repo.transitionCalls)
}

func TestRefresh_CarrierFailureKeepsLocalStatus(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	shipping := &fakeShipping{statusErr: errors.New("carrier down")}
	reconciler := newTestReconciler(repo, shipping, nil)

	got := reconciler.Refresh(context.Background(), order)

	assert.Same(t, order, got)
	assert.Zero(t, repo.transitionCalls)
}

// 未识别的承运商状态码按历史行为落到 CANCELED。
func TestRefresh_UnknownCarrierCodeFallsBackToCanceled(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	shipping := &fakeShipping{tracking: carrierStatus(7)}
	reconciler := newTestReconciler(repo, shipping, nil)

	got := reconciler.Refresh(context.Background(), order)

	assert.Equal(t, domain.StatusCanceled, got.Status)
	assert.Equal(t, domain.StatusCanceled, repo.get(order.ID).Status)
}

func TestRefresh_CacheHitSkipsCarrierCall(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	shipping := &fakeShipping{}
	cache := newMemCache(redis.ErrCacheMiss)
	require.NoError(t, cache.Set(context.Background(), "carrier:status:"+order.ID, "6", time.Minute))
	reconciler := newTestReconciler(repo, shipping, cache)

	got := reconciler.Refresh(context.Background(), order)

	assert.Zero(t, shipping.statusCalls)
	assert.Equal(t, domain.StatusDelivered, got.Status)
}

func TestRefresh_CacheMissFillsCache(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	shipping := &fakeShipping{tracking: carrierStatus(5)}
	cache := newMemCache(redis.ErrCacheMiss)
	reconciler := newTestReconciler(repo, shipping, cache)

	reconciler.Refresh(context.Background(), order)

	assert.Equal(t, 1, shipping.statusCalls)
	cached, err := cache.Get(context.Background(), "carrier:status:"+order.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", cached)
}

func TestRefresh_VersionConflictKeepsLocalStatus(t *testing.T) {
	order := seedOrder(domain.StatusShipping)
	repo := newMemOrderRepo(order)
	// 模拟并发写：仓储里的版本已前进
	repo.get(order.ID).Version = order.Version + 3
	shipping := &fakeShipping{tracking: carrierStatus(6)}
	reconciler := newTestReconciler(repo, shipping, nil)

	got := reconciler.Refresh(context.Background(), order)

	assert.Same(t, order, got)
}
