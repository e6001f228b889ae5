// Package domain contains core types for the favorite service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	storedomain "github.com/khasm-app/khasm/internal/store/domain"
)

// Favorite marks a store pinned by a customer. A customer can favorite a
// store at most once.
type Favorite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:ux_favorites_user_store" json:"user_id"`
	StoreID   snowflake.ID `gorm:"column:store_id;not null;uniqueIndex:ux_favorites_user_store" json:"store_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Store *storedomain.Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

// TableName sets the database table name.
func (Favorite) TableName() string { return "favorites" }
