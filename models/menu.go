package models

import (
	"time"
)

// DefaultCategory is used when a menu item is saved without a category
const DefaultCategory = "general"

// Menu represents a dish or drink offered by the restaurant
type Menu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemName  string    `gorm:"not null;index" json:"item_name"`
	Price     float64   `gorm:"not null;check:price >= 0" json:"price"`
	Category  string    `gorm:"not null;default:'general';index" json:"category"`
	Img       *string   `json:"img"`                          // nullable, stored image filename
	ImageURL  *string   `gorm:"-" json:"image_url,omitempty"` // computed field, public URL for Img
	Available bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Menu model
func (Menu) TableName() string {
	return "menus"
}
