package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("place not found")
	ErrNameExists  = errors.New("place name already exists")
	ErrInvalidName = errors.New("invalid place name")
	ErrInvalidID   = errors.New("invalid place id")
)

type CreatePlaceRequest struct {
	Name string
}

type UpdatePlaceRequest struct {
	ID       string
	Name     *string
	IsActive *bool
}

type GetPlaceRequest struct {
	ID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, place *Place) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Place, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Place, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type Service interface {
	Create(context.Context, CreatePlaceRequest) (Place, error)
	List(ctx context.Context, activeOnly bool) ([]Place, error)
	GetByID(context.Context, GetPlaceRequest) (Place, error)
	Update(context.Context, UpdatePlaceRequest) (Place, error)
	Delete(context.Context, GetPlaceRequest) error
}
