package orders

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/inventory"
	"github.com/stocklane/stocklane/pkg/common"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB opens an isolated named in-memory database. The pool is capped at
// one connection so concurrent transactions serialize instead of hitting
// sqlite lock errors.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:orders_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	numgen, err := NewNumberGenerator(1)
	require.NoError(t, err)
	return NewService(db, NewGormRepository(db), inventory.NewLedger(db), numgen, nil)
}

func seedProduct(t *testing.T, db *gorm.DB, name, sku string, qty int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:            common.UUIDint64(),
		Name:          name,
		Sku:           sku,
		Price:         25,
		CostPrice:     10,
		Quantity:      qty,
		MinStockLevel: 10,
		Unit:          "pcs",
		Status:        "active",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()
	s := &domain.Supplier{
		ID:    common.UUIDint64(),
		Name:  name,
		Email: name + "@example.com",
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func productQuantity(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Quantity
}

func TestCreateSaleOrder(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-001", 20)
	gadget := seedProduct(t, db, "Gadget", "GAD-001", 8)

	order, err := svc.Create(ctx, CreateRequest{
		Type:          domain.OrderTypeSale,
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Items: []ItemRequest{
			{ProductID: widget.ID, Quantity: 3, Price: 10},
			{ProductID: gadget.ID, Quantity: 2, Price: 5.5},
		},
		Tax:      2,
		Discount: 1,
	})
	require.NoError(t, err)

	require.Regexp(t, `^ORD-\d{8}-[0-9A-Z]+$`, order.OrderNumber)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Equal(t, domain.PaymentStatusUnpaid, order.PaymentStatus)
	require.Equal(t, "Alice", order.CustomerName)

	require.InDelta(t, 41.0, order.Subtotal, 1e-9)
	require.InDelta(t, 42.0, order.TotalAmount, 1e-9)

	require.Len(t, order.Items, 2)
	require.Equal(t, "Widget", order.Items[0].ProductName)
	require.Equal(t, "WID-001", order.Items[0].ProductSku)
	require.InDelta(t, 30.0, order.Items[0].Total, 1e-9)

	require.Equal(t, 17, productQuantity(t, db, widget.ID))
	require.Equal(t, 6, productQuantity(t, db, gadget.ID))
}

func TestCreatePurchaseOrder(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "acme")
	widget := seedProduct(t, db, "Widget", "WID-002", 5)

	order, err := svc.Create(ctx, CreateRequest{
		Type:       domain.OrderTypePurchase,
		SupplierID: supplier.ID,
		Items:      []ItemRequest{{ProductID: widget.ID, Quantity: 7, Price: 4}},
	})
	require.NoError(t, err)

	require.Equal(t, supplier.ID, order.SupplierID)
	require.InDelta(t, 28.0, order.TotalAmount, 1e-9)
	require.Equal(t, 12, productQuantity(t, db, widget.ID))
}

func TestCreatePurchaseUnknownSupplier(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)

	widget := seedProduct(t, db, "Widget", "WID-003", 5)

	_, err := svc.Create(context.Background(), CreateRequest{
		Type:       domain.OrderTypePurchase,
		SupplierID: 999999,
		Items:      []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 4}},
	})
	require.True(t, IsNotFound(err))
	require.Equal(t, 5, productQuantity(t, db, widget.ID))
}

func TestCreateEmptyItemsRejected(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Create(context.Background(), CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: nil,
	})
	require.True(t, IsValidation(err))

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateUnknownProductAllOrNothing(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)

	widget := seedProduct(t, db, "Widget", "WID-004", 10)

	_, err := svc.Create(context.Background(), CreateRequest{
		Type: domain.OrderTypeSale,
		Items: []ItemRequest{
			{ProductID: widget.ID, Quantity: 2, Price: 3},
			{ProductID: 424242, Quantity: 1, Price: 3},
		},
	})
	require.True(t, IsNotFound(err))

	// First line must not have been applied
	require.Equal(t, 10, productQuantity(t, db, widget.ID))
	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)

	widget := seedProduct(t, db, "Widget", "WID-005", 2)

	_, err := svc.Create(context.Background(), CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 3, Price: 9}},
	})
	require.True(t, IsInsufficientStock(err))
	require.Equal(t, 2, productQuantity(t, db, widget.ID))
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-006", 5)

	var succeeded, insufficient atomic.Int64
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := svc.Create(ctx, CreateRequest{
				Type:  domain.OrderTypeSale,
				Items: []ItemRequest{{ProductID: widget.ID, Quantity: 3, Price: 1}},
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case IsInsufficientStock(err):
				insufficient.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, int64(1), succeeded.Load())
	require.Equal(t, int64(1), insufficient.Load())
	require.Equal(t, 2, productQuantity(t, db, widget.ID))
}

func TestConcurrentCreatesDistinctOrderNumbers(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-007", 1000)

	const n = 20
	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			order, err := svc.Create(ctx, CreateRequest{
				Type:  domain.OrderTypeSale,
				Items: []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 1}},
			})
			if err != nil {
				return err
			}
			numbers[i] = order.OrderNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := map[string]bool{}
	for _, num := range numbers {
		require.False(t, seen[num], "duplicate order number %s", num)
		seen[num] = true
	}
	require.Equal(t, 1000-n, productQuantity(t, db, widget.ID))
}

func TestCancelSaleRestoresStock(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-008", 10)

	order, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 4, Price: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, productQuantity(t, db, widget.ID))

	require.NoError(t, svc.Cancel(ctx, order.ID))
	require.Equal(t, 10, productQuantity(t, db, widget.ID))

	_, err = svc.Get(ctx, order.ID)
	require.True(t, IsNotFound(err))

	var itemCount int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	require.Zero(t, itemCount)
}

func TestCancelPurchaseClampsAtZero(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-009", 0)

	order, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypePurchase,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 10, Price: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 10, productQuantity(t, db, widget.ID))

	// Stock was partly consumed between creation and cancellation
	require.NoError(t, db.Model(&domain.Product{}).
		Where("id = ?", widget.ID).
		Update("quantity", 4).Error)

	require.NoError(t, svc.Cancel(ctx, order.ID))
	require.Equal(t, 0, productQuantity(t, db, widget.ID))
}

func TestCancelTerminalOrderRejected(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-010", 10)

	order, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 2}},
	})
	require.NoError(t, err)

	completed := domain.OrderStatusCompleted
	_, err = svc.Update(ctx, order.ID, UpdateRequest{Status: &completed})
	require.NoError(t, err)

	err = svc.Cancel(ctx, order.ID)
	require.True(t, IsValidation(err))

	// Order and its stock effect remain intact
	require.Equal(t, 9, productQuantity(t, db, widget.ID))
	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCompleted, got.Status)
}

func TestCancelSurvivesDeletedProduct(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-011", 10)
	gadget := seedProduct(t, db, "Gadget", "GAD-011", 10)

	order, err := svc.Create(ctx, CreateRequest{
		Type: domain.OrderTypeSale,
		Items: []ItemRequest{
			{ProductID: widget.ID, Quantity: 2, Price: 1},
			{ProductID: gadget.ID, Quantity: 3, Price: 1},
		},
	})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&domain.Product{}, gadget.ID).Error)

	require.NoError(t, svc.Cancel(ctx, order.ID))
	require.Equal(t, 10, productQuantity(t, db, widget.ID))
	_, err = svc.Get(ctx, order.ID)
	require.True(t, IsNotFound(err))
}

func TestUpdateLifecycle(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-012", 10)
	order, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 2}},
	})
	require.NoError(t, err)

	confirmed := domain.OrderStatusConfirmed
	got, err := svc.Update(ctx, order.ID, UpdateRequest{Status: &confirmed})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusConfirmed, got.Status)

	completed := domain.OrderStatusCompleted
	got, err = svc.Update(ctx, order.ID, UpdateRequest{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCompleted, got.Status)

	// Terminal status admits no further transitions
	pending := domain.OrderStatusPending
	_, err = svc.Update(ctx, order.ID, UpdateRequest{Status: &pending})
	require.True(t, IsValidation(err))
}

func TestUpdateRejectsDirectCancellation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-013", 10)
	order, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 2}},
	})
	require.NoError(t, err)

	cancelled := domain.OrderStatusCancelled
	_, err = svc.Update(ctx, order.ID, UpdateRequest{Status: &cancelled})
	require.True(t, IsValidation(err))

	bogus := "shipped"
	_, err = svc.Update(ctx, order.ID, UpdateRequest{Status: &bogus})
	require.True(t, IsValidation(err))
}

func TestUpdatePaymentAndNotes(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-014", 10)
	order, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 2}},
	})
	require.NoError(t, err)

	paid := domain.PaymentStatusPaid
	notes := "paid by wire"
	got, err := svc.Update(ctx, order.ID, UpdateRequest{PaymentStatus: &paid, Notes: &notes})
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
	require.Equal(t, "paid by wire", got.Notes)
	require.Equal(t, domain.OrderStatusPending, got.Status)

	bogus := "refunded"
	_, err = svc.Update(ctx, order.ID, UpdateRequest{PaymentStatus: &bogus})
	require.True(t, IsValidation(err))
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Widget", "WID-015", 100)

	sale, err := svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypeSale,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 1, Price: 2}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{
		Type:  domain.OrderTypePurchase,
		Items: []ItemRequest{{ProductID: widget.ID, Quantity: 5, Price: 1}},
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	sales, err := svc.List(ctx, ListFilter{Type: domain.OrderTypeSale})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, sale.ID, sales[0].ID)
	require.Len(t, sales[0].Items, 1)
}
