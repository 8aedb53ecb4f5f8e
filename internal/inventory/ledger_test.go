package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/pkg/common"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Product{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, qty, minStock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:            common.UUIDint64(),
		Name:          "Product " + sku,
		Sku:           sku,
		Quantity:      qty,
		MinStockLevel: minStock,
		Status:        "active",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestApplyIncrement(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	p := seedProduct(t, db, "LED-001", 5, 2)

	require.NoError(t, ledger.Apply(ctx, nil, p.ID, 7))
	got, err := ledger.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 12, got.Quantity)
}

func TestApplyGuardedDecrement(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	p := seedProduct(t, db, "LED-002", 5, 2)

	require.NoError(t, ledger.Apply(ctx, nil, p.ID, -5))
	got, err := ledger.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)

	// Quantity never goes below zero
	err = ledger.Apply(ctx, nil, p.ID, -1)
	require.ErrorIs(t, err, ErrInsufficientStock)
	got, err = ledger.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}

func TestApplyZeroDeltaNoop(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)

	p := seedProduct(t, db, "LED-003", 5, 2)
	require.NoError(t, ledger.Apply(context.Background(), nil, p.ID, 0))

	got, err := ledger.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.Quantity)
}

func TestApplyUnknownProduct(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	require.ErrorIs(t, ledger.Apply(ctx, nil, 12345, -1), ErrProductNotFound)
	require.ErrorIs(t, ledger.ApplyClamped(ctx, nil, 12345, -1), ErrProductNotFound)

	_, err := ledger.Get(ctx, 12345)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestApplyClamped(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	p := seedProduct(t, db, "LED-004", 4, 2)

	// Larger reversal than on hand floors at zero instead of failing
	require.NoError(t, ledger.ApplyClamped(ctx, nil, p.ID, -10))
	got, err := ledger.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)

	// Positive deltas pass through unchanged
	require.NoError(t, ledger.ApplyClamped(ctx, nil, p.ID, 3))
	got, err = ledger.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Quantity)
}

func TestConcurrentDecrementsNeverOversell(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	p := seedProduct(t, db, "LED-005", 10, 2)

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			err := ledger.Apply(ctx, nil, p.ID, -1)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrInsufficientStock):
				failed.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, int64(10), succeeded.Load())
	require.Equal(t, int64(10), failed.Load())

	got, err := ledger.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}

func TestLowStock(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ledger := NewLedger(db)

	seedProduct(t, db, "LED-006", 0, 5)
	seedProduct(t, db, "LED-007", 3, 5)
	seedProduct(t, db, "LED-008", 5, 5)
	seedProduct(t, db, "LED-009", 50, 5)

	products, err := ledger.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	// Ordered by quantity, emptiest first
	require.Equal(t, "LED-006", products[0].Sku)
	require.Equal(t, "LED-007", products[1].Sku)
	require.Equal(t, "LED-008", products[2].Sku)
}
