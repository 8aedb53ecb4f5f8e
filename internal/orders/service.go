package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/inventory"
	"github.com/stocklane/stocklane/pkg/common"
	"github.com/stocklane/stocklane/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Event topics published by the order service. Subscribers (the mailer)
// run asynchronously; publishing never blocks or fails the transaction.
const (
	TopicOrderCreated = "order.created"
)

// CreateRequest carries everything needed to create an order
type CreateRequest struct {
	Type          string        `json:"type" form:"type"`
	SupplierID    int64         `json:"supplier_id,string" form:"supplier_id"`
	CustomerName  string        `json:"customer_name" form:"customer_name"`
	CustomerEmail string        `json:"customer_email" form:"customer_email"`
	Items         []ItemRequest `json:"items"`
	Tax           float64       `json:"tax" form:"tax"`
	Discount      float64       `json:"discount" form:"discount"`
	Notes         string        `json:"notes" form:"notes"`
	CreatedBy     int64         `json:"-"`
	CreatorEmail  string        `json:"-"`
}

// UpdateRequest is a partial order update; nil fields are left unchanged
type UpdateRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	Notes         *string `json:"notes"`
}

// Service coordinates order creation, lifecycle transitions and cancellation.
// Order row, item rows and all stock deltas commit as a single database
// transaction, so an order either exists with its full ledger effect applied
// or not at all.
type Service struct {
	db        *gorm.DB
	repo      Repository
	assembler *Assembler
	ledger    *inventory.Ledger
	numgen    *NumberGenerator
	bus       EventBus.Bus
}

// NewService creates the order service
func NewService(db *gorm.DB, repo Repository, ledger *inventory.Ledger, numgen *NumberGenerator, bus EventBus.Bus) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		assembler: NewAssembler(db),
		ledger:    ledger,
		numgen:    numgen,
		bus:       bus,
	}
}

// Assembler exposes the assembler for callers that only need validation
func (s *Service) Assembler() *Assembler {
	return s.assembler
}

// Create validates, prices and persists a new order, atomically applying the
// stock delta for every line item. For sales the sufficiency check and the
// decrement are one conditional UPDATE inside the transaction, so two
// concurrent sales can never oversell the same product.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Order, error) {
	assembled, err := s.assembler.Assemble(ctx, req.Type, req.Items, req.Tax, req.Discount)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:            common.UUIDint64(),
		OrderNumber:   s.numgen.Next(),
		Type:          assembled.Type,
		Items:         assembled.Items,
		Subtotal:      assembled.Subtotal,
		Tax:           assembled.Tax,
		Discount:      assembled.Discount,
		TotalAmount:   assembled.TotalAmount,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
	}

	switch req.Type {
	case domain.OrderTypePurchase:
		if req.SupplierID != 0 {
			var supplier domain.Supplier
			err := s.db.WithContext(ctx).First(&supplier, req.SupplierID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "supplier", ID: req.SupplierID}
			}
			if err != nil {
				return nil, &PersistenceError{Op: "load supplier", Err: err}
			}
			order.SupplierID = supplier.ID
		}
	case domain.OrderTypeSale:
		order.CustomerName = req.CustomerName
		order.CustomerEmail = req.CustomerEmail
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return &PersistenceError{Op: "create order", Err: err}
		}
		for _, item := range order.Items {
			delta := item.Quantity
			if order.Type == domain.OrderTypeSale {
				delta = -item.Quantity
			}
			if err := s.ledger.Apply(ctx, tx, item.ProductID, delta); err != nil {
				return s.mapLedgerError(ctx, tx, item, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter("orders_created", 1)
	zap.L().Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("type", order.Type),
		zap.Float64("total", order.TotalAmount),
		zap.Int("items", len(order.Items)))

	// Best-effort confirmation mail: purchase -> creator, sale -> customer
	emailTo := req.CreatorEmail
	if order.Type == domain.OrderTypeSale {
		emailTo = req.CustomerEmail
	}
	if s.bus != nil && emailTo != "" {
		s.bus.Publish(TopicOrderCreated, *order, emailTo)
	}

	return s.Get(ctx, order.ID)
}

// mapLedgerError converts ledger sentinel errors into the order error taxonomy
func (s *Service) mapLedgerError(ctx context.Context, tx *gorm.DB, item domain.OrderItem, err error) error {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		return &NotFoundError{Entity: "product", ID: item.ProductID}
	case errors.Is(err, inventory.ErrInsufficientStock):
		available := 0
		var p domain.Product
		if lerr := tx.WithContext(ctx).First(&p, item.ProductID).Error; lerr == nil {
			available = p.Quantity
		}
		return &InsufficientStockError{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Available:   available,
			Requested:   item.Quantity,
		}
	default:
		return &PersistenceError{Op: "apply stock delta", Err: err}
	}
}

// Get returns a single order with its items
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load order", Err: err}
	}
	return order, nil
}

// List returns orders newest first, optionally filtered
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*domain.Order, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return list, nil
}

// Update applies a partial status/payment/notes update behind the lifecycle
// transition table. Moving to 'cancelled' is rejected here: cancellation
// reverses stock and goes through Cancel.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		newStatus := *req.Status
		if !ValidStatus(newStatus) {
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown order status %q", newStatus)}
		}
		if newStatus == domain.OrderStatusCancelled && order.Status != domain.OrderStatusCancelled {
			return nil, &ValidationError{Reason: "use the cancel operation to cancel an order"}
		}
		if !CanTransition(order.Status, newStatus) {
			return nil, &ValidationError{Reason: fmt.Sprintf("illegal status transition %s -> %s", order.Status, newStatus)}
		}
		updates["status"] = newStatus
	}
	if req.PaymentStatus != nil {
		if !ValidPaymentStatus(*req.PaymentStatus) {
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown payment status %q", *req.PaymentStatus)}
		}
		updates["payment_status"] = *req.PaymentStatus
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return order, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.repo.UpdateFields(ctx, id, updates); err != nil {
		return nil, &PersistenceError{Op: "update order", Err: err}
	}
	return s.Get(ctx, id)
}

// Cancel reverses the quantity deltas the order originally applied and
// removes the order record, all within one transaction. Sale cancellation
// restores stock; purchase cancellation removes it, clamped at zero in case
// stock was independently consumed since creation. A product deleted after
// order creation is tolerated: its line is skipped rather than aborting the
// whole cancellation.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if IsTerminal(order.Status) {
		return &ValidationError{Reason: fmt.Sprintf("order in status %q cannot be cancelled", order.Status)}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			delta := -item.Quantity
			if order.Type == domain.OrderTypeSale {
				delta = item.Quantity
			}
			err := s.ledger.ApplyClamped(ctx, tx, item.ProductID, delta)
			if errors.Is(err, inventory.ErrProductNotFound) {
				zap.L().Warn("skipping stock reversal for deleted product",
					zap.String("order_number", order.OrderNumber),
					zap.Int64("product_id", item.ProductID))
				continue
			}
			if err != nil {
				return &PersistenceError{Op: "reverse stock delta", Err: err}
			}
		}
		if err := s.repo.Delete(ctx, tx, order.ID); err != nil {
			return &PersistenceError{Op: "delete order", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncrCounter("orders_cancelled", 1)
	zap.L().Info("order cancelled and inventory restored",
		zap.String("order_number", order.OrderNumber))
	return nil
}
