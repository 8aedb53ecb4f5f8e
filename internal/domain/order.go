package domain

import "time"

// Order types
const (
	OrderTypePurchase = "purchase"
	OrderTypeSale     = "sale"
)

// Order status values
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment status values
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Order represents a purchase or sale order with its monetary breakdown.
// The counterparty is a supplier for purchases and a customer name/email pair
// for sales, mutually exclusive by type.
type Order struct {
	ID            int64       `gorm:"primaryKey" json:"id,string"`
	OrderNumber   string      `gorm:"uniqueIndex;size:64" json:"order_number"`
	Type          string      `gorm:"index;size:16" json:"type" form:"type"`
	SupplierID    int64       `gorm:"index" json:"supplier_id,string" form:"supplier_id"`
	CustomerName  string      `json:"customer_name" form:"customer_name"`
	CustomerEmail string      `json:"customer_email" form:"customer_email"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax" form:"tax"`
	Discount      float64     `json:"discount" form:"discount"`
	TotalAmount   float64     `json:"total_amount"`
	Status        string      `gorm:"index;size:16" json:"status"`
	PaymentStatus string      `gorm:"index;size:16" json:"payment_status"`
	Notes         string      `json:"notes" form:"notes"`
	CreatedBy     int64       `json:"created_by,string"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single product line within an order, immutable once the
// order is created. ProductName and ProductSku are snapshots taken at order
// time so history survives catalog churn.
type OrderItem struct {
	ID          int64   `gorm:"primaryKey" json:"id,string"`
	OrderID     int64   `gorm:"index" json:"order_id,string"`
	ProductID   int64   `gorm:"index" json:"product_id,string"`
	ProductName string  `json:"product_name"`
	ProductSku  string  `gorm:"size:64" json:"product_sku"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"` // unit price at order time, not necessarily catalog price
	Total       float64 `json:"total"` // quantity * price
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
