package models

import (
	"time"
)

// Feedback is a free-text comment left by a customer
type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	CustomerName string    `gorm:"not null" json:"customer_name"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	Rating       *int      `json:"rating"` // nullable, 1 to 5
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedbacks"
}

// All returns every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{&User{}, &Menu{}, &Order{}, &Bill{}, &Feedback{}}
}
