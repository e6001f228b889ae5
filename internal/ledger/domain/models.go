// Package domain contains core types for the usage ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UsageRecord is one redemption of a store discount by a customer. The
// composite unique index is the authority on "once per store per day":
// concurrent inserts for the same key collide at the database, not in
// application code.
type UsageRecord struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:ux_usage_user_store_day,priority:1" json:"user_id"`
	SubscriptionID snowflake.ID `gorm:"column:subscription_id;not null;index" json:"subscription_id"`
	StoreID        snowflake.ID `gorm:"column:store_id;not null;uniqueIndex:ux_usage_user_store_day,priority:2" json:"store_id"`
	UsedAt         time.Time    `gorm:"column:used_at;not null" json:"used_at"`
	UsageDate      string       `gorm:"column:usage_date;type:text;not null;uniqueIndex:ux_usage_user_store_day,priority:3;index" json:"usage_date"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }
