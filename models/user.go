package models

import (
	"time"
)

// Roles a user account can hold
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User represents an account in the system (admin, staff or customer)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'customer';index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Summary is the sanitized view of a user returned to API callers
type Summary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// ToSummary strips the password digest and timestamps
func (u User) ToSummary() Summary {
	return Summary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// IsValidRole reports whether role is one of the known account roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}
