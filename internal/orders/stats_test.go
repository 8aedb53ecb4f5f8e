package orders

import (
	"context"
	"testing"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "STAT-001", 1000)

	mkOrder := func(orderType string, qty int, price float64) *domain.Order {
		order, err := svc.Create(ctx, CreateRequest{
			Type:  orderType,
			Items: []ItemRequest{{ProductID: widget.ID, Quantity: qty, Price: price}},
		})
		require.NoError(t, err)
		return order
	}
	complete := func(id int64) {
		completed := domain.OrderStatusCompleted
		_, err := svc.Update(ctx, id, UpdateRequest{Status: &completed})
		require.NoError(t, err)
	}

	sale1 := mkOrder(domain.OrderTypeSale, 2, 10)     // 20
	sale2 := mkOrder(domain.OrderTypeSale, 1, 5)      // 5, stays pending
	purchase := mkOrder(domain.OrderTypePurchase, 4, 3) // 12
	_ = sale2

	complete(sale1.ID)
	complete(purchase.ID)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(3), stats.TotalOrders)
	require.Equal(t, int64(1), stats.PendingOrders)
	require.Equal(t, int64(2), stats.CompletedOrders)

	// Only completed orders count towards the totals
	require.InDelta(t, 20.0, stats.TotalSalesAmount, 1e-9)
	require.InDelta(t, 12.0, stats.TotalPurchasesAmount, 1e-9)

	require.Len(t, stats.SalesTrend, 1)
	require.InDelta(t, 20.0, stats.SalesTrend[0].Sales, 1e-9)
	require.InDelta(t, 12.0, stats.SalesTrend[0].Purchases, 1e-9)
}

func TestStatsEmpty(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalOrders)
	require.Zero(t, stats.TotalSalesAmount)
	require.Empty(t, stats.SalesTrend)
}
