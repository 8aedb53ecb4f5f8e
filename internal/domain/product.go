package domain

import "time"

// Product stock status values derived from quantity, never stored.
const (
	StockStatusIn  = "in_stock"
	StockStatusLow = "low_stock"
	StockStatusOut = "out_of_stock"
)

// Product represents a catalog item tracked by the inventory ledger
type Product struct {
	ID            int64     `gorm:"primaryKey" json:"id,string"`
	Name          string    `gorm:"index" json:"name" form:"name"`
	Sku           string    `gorm:"uniqueIndex;size:64" json:"sku" form:"sku"`
	Description   string    `json:"description" form:"description"`
	CategoryID    int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	SupplierID    int64     `gorm:"index" json:"supplier_id,string" form:"supplier_id"` // optional, 0 = none
	Price         float64   `json:"price" form:"price"`                                 // unit sale price
	CostPrice     float64   `json:"cost_price" form:"cost_price"`
	Quantity      int       `json:"quantity" form:"quantity"` // quantity on hand, never negative
	MinStockLevel int       `json:"min_stock_level" form:"min_stock_level"`
	Unit          string    `gorm:"size:32" json:"unit" form:"unit"`
	Location      string    `json:"location" form:"location"`
	Status        string    `gorm:"size:32" json:"status" form:"status"` // 'active', 'discontinued' or 'out_of_stock'
	ImageUrl      string    `gorm:"size:1024" json:"image_url" form:"image_url"`
	CreatedBy     int64     `json:"created_by,string"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// StockStatus derives the display stock level from the current quantity
func (p Product) StockStatus() string {
	switch {
	case p.Quantity == 0:
		return StockStatusOut
	case p.Quantity <= p.MinStockLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// IsLowStock reports whether the product is at or below its reorder threshold
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}
