package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidUser         = errors.New("invalid user reference")
	ErrInvalidSubscription = errors.New("invalid subscription reference")
	ErrInvalidStore        = errors.New("invalid store reference")
	ErrStoreInactive       = errors.New("store is not active")
)

type CheckAllowanceRequest struct {
	UserID         string
	SubscriptionID string
	StoreID        string
}

// Allowance reports whether a redemption would be accepted right now.
// It is advisory: RecordUsage re-verifies against the unique index.
type Allowance struct {
	Allowed         bool       `json:"allowed"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	NextAvailableAt *time.Time `json:"next_available_at,omitempty"`
}

type RecordUsageRequest struct {
	UserID         string
	SubscriptionID string
	StoreID        string
}

// RedeemResult is the outcome of a redemption attempt. A same-day repeat
// is a recoverable outcome, not an error: Success is false and
// AlreadyUsed is true.
type RedeemResult struct {
	Success     bool         `json:"success"`
	AlreadyUsed bool         `json:"already_used"`
	Record      *UsageRecord `json:"record,omitempty"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	// FindOne looks up the day's redemption by user, store and day key
	// only; the subscription a redemption was recorded under never
	// affects allowance.
	FindOne(ctx context.Context, db *gorm.DB, userID, storeID snowflake.ID, usageDate string) (*UsageRecord, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]UsageRecord, error)
}

type Service interface {
	CheckAllowance(context.Context, CheckAllowanceRequest) (Allowance, error)
	RecordUsage(context.Context, RecordUsageRequest) (RedeemResult, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]UsageRecord, error)
}
