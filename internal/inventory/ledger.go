// Package inventory owns the quantity-on-hand ledger for catalog products.
// All stock mutation goes through signed deltas applied as single conditional
// UPDATE statements, so the sufficiency check and the decrement are one atomic
// step even under concurrent order traffic.
package inventory

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/stocklane/stocklane/internal/domain"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a guarded decrement would drive the
// quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrProductNotFound is returned when the referenced product row is absent
var ErrProductNotFound = errors.New("product not found")

// Ledger applies stock deltas against the products table
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a ledger bound to the given database handle
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Get returns the current product row
func (l *Ledger) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	var p domain.Product
	err := l.db.WithContext(ctx).First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Apply applies a signed delta to a product's quantity within tx. Negative
// deltas are guarded: the statement only takes effect when the resulting
// quantity stays >= 0, and ErrInsufficientStock is returned otherwise.
func (l *Ledger) Apply(ctx context.Context, tx *gorm.DB, productID int64, delta int) error {
	if tx == nil {
		tx = l.db
	}
	if delta == 0 {
		return nil
	}

	var res *gorm.DB
	if delta > 0 {
		res = tx.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ?", productID).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"updated_at": time.Now(),
			})
	} else {
		n := -delta
		res = tx.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ? AND quantity >= ?", productID, n).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", n),
				"updated_at": time.Now(),
			})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from a failed stock guard
		var count int64
		if err := tx.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// ApplyClamped applies a negative delta flooring the result at zero. Used
// when reversing purchase orders: stock may already have been consumed
// elsewhere, and cancellation must still succeed.
func (l *Ledger) ApplyClamped(ctx context.Context, tx *gorm.DB, productID int64, delta int) error {
	if tx == nil {
		tx = l.db
	}
	if delta >= 0 {
		return l.Apply(ctx, tx, productID, delta)
	}
	n := -delta
	res := tx.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("CASE WHEN quantity >= ? THEN quantity - ? ELSE 0 END", n, n),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// LowStock returns products at or below their reorder threshold
func (l *Ledger) LowStock(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := l.db.WithContext(ctx).
		Where("quantity <= min_stock_level").
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

// TopicLowStock is published with a low-stock product for alert subscribers
const TopicLowStock = "product.lowstock"
