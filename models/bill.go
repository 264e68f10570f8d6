package models

import (
	"time"
)

// Bill statuses
const (
	BillUnpaid = "unpaid"
	BillPaid   = "paid"
)

// Bill represents the amount owed for an order
type Bill struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	OrderID    uint       `gorm:"not null;index" json:"order_id"`
	CustomerID uint       `gorm:"not null;index" json:"customer_id"`
	ItemName   string     `gorm:"not null" json:"item_name"`
	TotalPrice float64    `gorm:"not null;check:total_price >= 0" json:"total_price"`
	Status     string     `gorm:"not null;default:'unpaid';index" json:"status"`
	PaidAt     *time.Time `json:"paid_at"` // nullable, stamped when the bill is paid
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// IsValidBillStatus reports whether status is unpaid or paid
func IsValidBillStatus(status string) bool {
	return status == BillUnpaid || status == BillPaid
}
