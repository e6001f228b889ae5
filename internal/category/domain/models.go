// Package domain contains core types for the category service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category classifies stores. Letter is the single-character badge shown
// on the card UI.
type Category struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Letter    string       `gorm:"type:text;not null" json:"letter"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Category) TableName() string { return "categories" }
