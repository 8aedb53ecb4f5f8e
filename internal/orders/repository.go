package orders

import (
	"context"

	"github.com/stocklane/stocklane/internal/domain"
	"gorm.io/gorm"
)

// ListFilter narrows order listings. Empty fields are ignored.
type ListFilter struct {
	Type          string
	Status        string
	PaymentStatus string
}

// Repository handles database operations for orders
type Repository interface {
	// Create inserts a new order with its items, using tx when given
	Create(ctx context.Context, tx *gorm.DB, order *domain.Order) error

	// GetByID retrieves an order with its items
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// List retrieves orders newest first, optionally filtered
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)

	// UpdateFields applies a partial update to an order row
	UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// Delete removes an order and its items, using tx when given
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based order repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Order, error) {
	query := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var list []*domain.Order
	err := query.Preload("Items").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GormRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *GormRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&domain.Order{}, id).Error
}
