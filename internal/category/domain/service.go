package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrNameExists    = errors.New("category name already exists")
	ErrInvalidName   = errors.New("invalid category name")
	ErrInvalidLetter = errors.New("invalid category letter")
	ErrInvalidID     = errors.New("invalid category id")
)

type CreateCategoryRequest struct {
	Name   string
	Letter string
}

type UpdateCategoryRequest struct {
	ID     string
	Name   *string
	Letter *string
}

type GetCategoryRequest struct {
	ID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, category *Category) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Category, error)
	List(ctx context.Context, db *gorm.DB) ([]Category, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type Service interface {
	Create(context.Context, CreateCategoryRequest) (Category, error)
	List(context.Context) ([]Category, error)
	GetByID(context.Context, GetCategoryRequest) (Category, error)
	Update(context.Context, UpdateCategoryRequest) (Category, error)
	Delete(context.Context, GetCategoryRequest) error
}
