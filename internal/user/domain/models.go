// Package domain contains core types for the user service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Roles carried on user accounts.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an account. Admins operate the dashboard, customers
// hold discount cards.
type User struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Email        *string           `gorm:"type:text;uniqueIndex" json:"email,omitempty"`
	MobileNumber *string           `gorm:"column:mobile_number;type:text;uniqueIndex" json:"mobile_number,omitempty"`
	IDNumber     *string           `gorm:"column:id_number;type:text" json:"id_number,omitempty"`
	PasswordHash string            `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role         string            `gorm:"type:text;not null;default:'customer';index" json:"role"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
