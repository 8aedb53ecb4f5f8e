package orders

import (
	"context"
	"sort"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
)

// TrendPoint is one month of completed order totals for dashboard charts
type TrendPoint struct {
	Name      string  `json:"name"` // e.g. "Mar 2026"
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
}

// Stats is the order dashboard aggregate
type Stats struct {
	TotalOrders          int64        `json:"total_orders"`
	PendingOrders        int64        `json:"pending_orders"`
	CompletedOrders      int64        `json:"completed_orders"`
	TotalSalesAmount     float64      `json:"total_sales_amount"`
	TotalPurchasesAmount float64      `json:"total_purchases_amount"`
	SalesTrend           []TrendPoint `json:"sales_trend"`
}

// Stats aggregates order counts, completed sale/purchase totals and the
// monthly trend over the last six months.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&domain.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return nil, &PersistenceError{Op: "count orders", Err: err}
	}
	if err := db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusPending).
		Count(&out.PendingOrders).Error; err != nil {
		return nil, &PersistenceError{Op: "count pending orders", Err: err}
	}
	if err := db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusCompleted).
		Count(&out.CompletedOrders).Error; err != nil {
		return nil, &PersistenceError{Op: "count completed orders", Err: err}
	}

	type sumRow struct {
		Type  string
		Total float64
	}
	var sums []sumRow
	if err := db.Model(&domain.Order{}).
		Select("type, COALESCE(SUM(total_amount), 0) AS total").
		Where("status = ?", domain.OrderStatusCompleted).
		Group("type").
		Scan(&sums).Error; err != nil {
		return nil, &PersistenceError{Op: "sum completed orders", Err: err}
	}
	for _, row := range sums {
		switch row.Type {
		case domain.OrderTypeSale:
			out.TotalSalesAmount = row.Total
		case domain.OrderTypePurchase:
			out.TotalPurchasesAmount = row.Total
		}
	}

	trend, err := s.salesTrend(ctx)
	if err != nil {
		return nil, err
	}
	out.SalesTrend = trend
	return &out, nil
}

// salesTrend buckets completed orders of the last six months by calendar
// month. Bucketing happens in Go so the query stays portable across
// postgres and sqlite.
func (s *Service) salesTrend(ctx context.Context) ([]TrendPoint, error) {
	since := time.Now().AddDate(0, -6, 0)

	type trendRow struct {
		Type        string
		TotalAmount float64
		CreatedAt   time.Time
	}
	var rows []trendRow
	err := s.db.WithContext(ctx).Model(&domain.Order{}).
		Select("type, total_amount, created_at").
		Where("status = ? AND created_at >= ?", domain.OrderStatusCompleted, since).
		Scan(&rows).Error
	if err != nil {
		return nil, &PersistenceError{Op: "load trend orders", Err: err}
	}

	buckets := map[string]*TrendPoint{}
	keys := map[string]time.Time{}
	for _, row := range rows {
		month := time.Date(row.CreatedAt.Year(), row.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		name := month.Format("Jan 2006")
		point, ok := buckets[name]
		if !ok {
			point = &TrendPoint{Name: name}
			buckets[name] = point
			keys[name] = month
		}
		switch row.Type {
		case domain.OrderTypeSale:
			point.Sales += row.TotalAmount
		case domain.OrderTypePurchase:
			point.Purchases += row.TotalAmount
		}
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return keys[names[i]].Before(keys[names[j]])
	})

	trend := make([]TrendPoint, 0, len(names))
	for _, name := range names {
		trend = append(trend, *buckets[name])
	}
	return trend, nil
}
