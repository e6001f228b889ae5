package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("subscription not found")
	ErrInvalidUser    = errors.New("invalid user reference")
	ErrInvalidID      = errors.New("invalid subscription id")
	ErrInvalidStatus  = errors.New("invalid subscription status")
	ErrNoSubscription = errors.New("user has no subscription")
)

type CreateSubscriptionRequest struct {
	UserID string
}

type GetSubscriptionRequest struct {
	ID string
}

type UpdateStatusRequest struct {
	ID     string
	Status string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	// FindLatestByUser returns the most recently created subscription of a
	// user, regardless of status.
	FindLatestByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB) ([]Subscription, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
}

type Service interface {
	Create(context.Context, CreateSubscriptionRequest) (Subscription, error)
	List(context.Context) ([]Subscription, error)
	GetByID(context.Context, GetSubscriptionRequest) (Subscription, error)
	CurrentByUser(ctx context.Context, userID string) (Subscription, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Subscription, error)
}
