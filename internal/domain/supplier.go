package domain

import "time"

// Supplier represents a purchasing counterparty
type Supplier struct {
	ID            int64     `json:"id,string" form:"id"`
	Name          string    `gorm:"index" json:"name" form:"name"`
	Email         string    `json:"email" form:"email"`
	Phone         string    `json:"phone" form:"phone"`
	Address       string    `json:"address" form:"address"`
	ContactPerson string    `json:"contact_person" form:"contact_person"`
	Rating        int       `json:"rating" form:"rating"`
	IsActive      bool      `json:"is_active" form:"is_active"`
	Remark        string    `json:"remark" form:"remark"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Supplier) TableName() string {
	return "suppliers"
}

// Category represents a flat product grouping
type Category struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"uniqueIndex;size:128" json:"name" form:"name"`
	Description string    `json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "categories"
}
