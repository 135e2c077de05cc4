// internal/service/order/application/revenue.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"nexmall/internal/service/order/domain"
)

// 报表接受的时间框。
var validTimeframes = map[string]bool{
	"all": true, "daily": true, "weekly": true, "monthly": true, "yearly": true,
}

// RevenueService 是只读的营收报表，不属于协调器的核心链路。
type RevenueService struct {
	repo   domain.RevenueRepository
	tracer trace.Tracer
}

func NewRevenueService(repo domain.RevenueRepository, tracer trace.Tracer) *RevenueService {
	return &RevenueService{repo: repo, tracer: tracer}
}

func (s *RevenueService) DailyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return s.repo.DailyRevenue(ctx)
}

func (s *RevenueService) WeeklyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return s.repo.WeeklyRevenue(ctx)
}

func (s *RevenueService) MonthlyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return s.repo.MonthlyRevenue(ctx)
}

func (s *RevenueService) YearlyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return s.repo.YearlyRevenue(ctx)
}

func (s *RevenueService) AverageMonthlyRevenue(ctx context.Context) (float64, error) {
	return s.repo.AverageMonthlyRevenue(ctx)
}

// TopProducts 按营收排名商品，timeframe 非法时报验证错误。
func (s *RevenueService) TopProducts(ctx context.Context, timeframe string, limit int) ([]domain.TopProduct, error) {
	if timeframe == "" {
		timeframe = "all"
	}
	if !validTimeframes[timeframe] {
		return nil, domain.ErrValidation.WithMessage("unknown timeframe " + timeframe)
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopProductsByRevenue(ctx, timeframe, limit)
}

// TopCustomers 按消费额排名客户。
func (s *RevenueService) TopCustomers(ctx context.Context, timeframe string, limit int) ([]domain.TopCustomer, error) {
	if timeframe == "" {
		timeframe = "all"
	}
	if !validTimeframes[timeframe] {
		return nil, domain.ErrValidation.WithMessage("unknown timeframe " + timeframe)
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopCustomersByValue(ctx, timeframe, limit)
}
