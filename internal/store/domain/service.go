package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("store not found")
	ErrInvalidName     = errors.New("invalid store name")
	ErrInvalidPlace    = errors.New("invalid place reference")
	ErrInvalidCategory = errors.New("invalid category reference")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrInvalidID       = errors.New("invalid store id")
)

type CreateStoreRequest struct {
	Name       string
	PlaceID    string
	CategoryID string
	Discount   float64
}

type UpdateStoreRequest struct {
	ID         string
	Name       *string
	PlaceID    *string
	CategoryID *string
	Discount   *float64
	IsActive   *bool
}

type GetStoreRequest struct {
	ID string
}

type ListStoreFilter struct {
	PlaceID    snowflake.ID
	CategoryID snowflake.ID
	ActiveOnly bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, store *Store) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Store, error)
	List(ctx context.Context, db *gorm.DB, filter ListStoreFilter) ([]Store, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type Service interface {
	Create(context.Context, CreateStoreRequest) (Store, error)
	List(ctx context.Context, filter ListStoreFilter) ([]Store, error)
	GetByID(context.Context, GetStoreRequest) (Store, error)
	Update(context.Context, UpdateStoreRequest) (Store, error)
	Delete(context.Context, GetStoreRequest) error

	// GroupedByPlace returns the active stores arranged per place for the
	// card view. Stores whose place or category is missing are skipped.
	GroupedByPlace(ctx context.Context) ([]PlaceGroup, error)
}
