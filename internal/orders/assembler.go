package orders

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stocklane/stocklane/internal/domain"
	"gorm.io/gorm"
)

// ItemRequest is one requested order line as submitted by the caller. Price
// is the negotiated unit price for this order, not necessarily the catalog
// price.
type ItemRequest struct {
	ProductID int64   `json:"product_id,string" form:"product_id"`
	Quantity  int     `json:"quantity" form:"quantity"`
	Price     float64 `json:"price" form:"price"`
}

// AssembledOrder is the validated, priced, not-yet-persisted order content
type AssembledOrder struct {
	Type        string
	Items       []domain.OrderItem
	Subtotal    float64
	Tax         float64
	Discount    float64
	TotalAmount float64
}

// Assembler validates requested line items against current product state and
// computes the monetary breakdown. It never mutates stock or persists
// anything; the stock check here is advisory and repeated atomically inside
// the creation transaction.
type Assembler struct {
	db *gorm.DB
}

// NewAssembler creates an assembler reading product state from db
func NewAssembler(db *gorm.DB) *Assembler {
	return &Assembler{db: db}
}

// Assemble builds the immutable item list and totals for a new order
func (a *Assembler) Assemble(ctx context.Context, orderType string, items []ItemRequest, tax, discount float64) (*AssembledOrder, error) {
	if orderType != domain.OrderTypePurchase && orderType != domain.OrderTypeSale {
		return nil, &ValidationError{Reason: "order type must be 'purchase' or 'sale'"}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Reason: "please add at least one item to the order"}
	}
	if tax < 0 || discount < 0 {
		return nil, &ValidationError{Reason: "tax and discount must not be negative"}
	}

	var subtotal float64
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, &ValidationError{Reason: "item quantity must be at least 1"}
		}
		if item.Price < 0 {
			return nil, &ValidationError{Reason: "item price must not be negative"}
		}

		var product domain.Product
		err := a.db.WithContext(ctx).First(&product, item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: item.ProductID}
		}
		if err != nil {
			return nil, &PersistenceError{Op: "load product", Err: err}
		}

		if orderType == domain.OrderTypeSale && product.Quantity < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   item.Quantity,
			}
		}

		lineTotal := float64(item.Quantity) * item.Price
		subtotal += lineTotal

		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSku:  product.Sku,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       lineTotal,
		})
	}

	total := subtotal + tax - discount
	if total < 0 {
		return nil, &ValidationError{Reason: "discount exceeds subtotal plus tax"}
	}

	return &AssembledOrder{
		Type:        orderType,
		Items:       orderItems,
		Subtotal:    subtotal,
		Tax:         tax,
		Discount:    discount,
		TotalAmount: total,
	}, nil
}
