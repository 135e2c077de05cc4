// internal/service/order/infrastructure/gorm_revenue_repository.go
package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"nexmall/internal/service/order/domain"
)

// GormRevenueRepository 实现只读报表投影。
// 统计口径：status = 3（已送达）才计入营收。
type GormRevenueRepository struct {
	db *gorm.DB
}

func NewGormRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

func (r *GormRevenueRepository) DailyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return r.buckets(ctx, `
		SELECT DATE(o.order_date) AS period, SUM(o.total_price) AS total
		FROM orders o
		WHERE o.status = 3
		GROUP BY DATE(o.order_date)
		ORDER BY period`)
}

func (r *GormRevenueRepository) WeeklyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return r.buckets(ctx, `
		SELECT CONCAT(YEAR(o.order_date), '-W', LPAD(WEEK(o.order_date), 2, '0')) AS period,
		       SUM(o.total_price) AS total
		FROM orders o
		WHERE o.status = 3
		GROUP BY CONCAT(YEAR(o.order_date), '-W', LPAD(WEEK(o.order_date), 2, '0'))
		ORDER BY period`)
}

func (r *GormRevenueRepository) MonthlyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return r.buckets(ctx, `
		SELECT CONCAT(YEAR(o.order_date), '-', LPAD(MONTH(o.order_date), 2, '0')) AS period,
		       SUM(o.total_price) AS total
		FROM orders o
		WHERE o.status = 3
		GROUP BY CONCAT(YEAR(o.order_date), '-', LPAD(MONTH(o.order_date), 2, '0'))
		ORDER BY period`)
}

func (r *GormRevenueRepository) YearlyRevenue(ctx context.Context) ([]domain.RevenueBucket, error) {
	return r.buckets(ctx, `
		SELECT YEAR(o.order_date) AS period, SUM(o.total_price) AS total
		FROM orders o
		WHERE o.status = 3
		GROUP BY YEAR(o.order_date)
		ORDER BY period`)
}

func (r *GormRevenueRepository) AverageMonthlyRevenue(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Raw(`
		SELECT AVG(monthly.total) FROM (
			SELECT SUM(o.total_price) AS total
			FROM orders o
			WHERE o.status = 3
			GROUP BY YEAR(o.order_date), MONTH(o.order_date)
		) AS monthly`).Scan(&avg).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *GormRevenueRepository) TopProductsByRevenue(ctx context.Context, timeframe string, limit int) ([]domain.TopProduct, error) {
	var rows []domain.TopProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT oi.product_code AS product_code, oi.name AS name,
		       SUM(oi.quantity) AS quantity,
		       SUM(oi.quantity * oi.price) AS revenue
		FROM order_item oi
		JOIN orders o ON oi.id_order = o.id_order
		WHERE ? = 'all'
		   OR (? = 'daily' AND o.order_date >= CURRENT_DATE)
		   OR (? = 'weekly' AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL 7 DAY))
		   OR (? = 'monthly' AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL 30 DAY))
		   OR (? = 'yearly' AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL 365 DAY))
		GROUP BY oi.product_code, oi.name
		ORDER BY revenue DESC
		LIMIT ?`,
		timeframe, timeframe, timeframe, timeframe, timeframe, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRevenueRepository) TopCustomersByValue(ctx context.Context, timeframe string, limit int) ([]domain.TopCustomer, error) {
	var rows []domain.TopCustomer
	err := r.db.WithContext(ctx).Raw(`
		SELECT o.id_user AS user_id, o.customer_name AS customer_name,
		       COUNT(o.id_order) AS total_orders,
		       SUM(o.total_price) AS total_value
		FROM orders o
		WHERE ? = 'all'
		   OR (? = 'daily' AND o.order_date >= CURRENT_DATE)
		   OR (? = 'weekly' AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL 7 DAY))
		   OR (? = 'monthly' AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL 30 DAY))
		   OR (? = 'yearly' AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL 365 DAY))
		GROUP BY o.id_user, o.customer_name
		ORDER BY total_value DESC
		LIMIT ?`,
		timeframe, timeframe, timeframe, timeframe, timeframe, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *GormRevenueRepository) buckets(ctx context.Context, query string) ([]domain.RevenueBucket, error) {
	var rows []struct {
		Period string
		Total  float64
	}
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	buckets := make([]domain.RevenueBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, domain.RevenueBucket{Period: row.Period, Total: row.Total})
	}
	return buckets, nil
}
