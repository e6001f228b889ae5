// Package domain contains core types for the subscription service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

// Subscription statuses.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Subscription grants a customer card access for a fixed period.
type Subscription struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	StartDate time.Time    `gorm:"column:start_date;not null" json:"start_date"`
	ExpiresAt time.Time    `gorm:"column:expires_at;not null" json:"expires_at"`
	Status    string       `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	User *userdomain.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// IsExpired reports whether the subscription has lapsed at the given
// instant. Expiry gates card presentation only, not the usage ledger.
func (s Subscription) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
