// Package domain contains core types for the store service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
)

// Store is a participating business offering a discount to card holders.
type Store struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	PlaceID    snowflake.ID `gorm:"column:place_id;not null;index" json:"place_id"`
	CategoryID snowflake.ID `gorm:"column:category_id;not null;index" json:"category_id"`
	Discount   float64      `gorm:"not null;default:0" json:"discount"`
	IsActive   bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Place    *placedomain.Place       `gorm:"foreignKey:PlaceID" json:"place,omitempty"`
	Category *categorydomain.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName sets the database table name.
func (Store) TableName() string { return "stores" }

// StoreSummary is the trimmed store representation shown on the card.
type StoreSummary struct {
	ID       snowflake.ID            `json:"id"`
	Name     string                  `json:"name"`
	Discount float64                 `json:"discount"`
	Category categorydomain.Category `json:"category"`
}

// PlaceGroup collects the active stores of one place.
type PlaceGroup struct {
	Place  placedomain.Place `json:"place"`
	Stores []StoreSummary    `json:"stores"`
}
