package models

import (
	"time"
)

// Order statuses accepted by the staff workflow
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// OrderStatuses lists every status staff may set on an order
var OrderStatuses = []string{OrderPending, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled}

// Order represents a customer's order of a single menu item
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	CustomerName string    `gorm:"not null" json:"customer_name"` // snapshot taken when the order is placed
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	ItemName     string    `gorm:"not null" json:"item_name"` // snapshot of the menu item name
	Quantity     int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Status       string    `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsValidOrderStatus reports whether status is in the staff whitelist
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
