package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidUser  = errors.New("invalid user reference")
	ErrInvalidStore = errors.New("invalid store reference")
	ErrNotFound     = errors.New("favorite not found")
)

type ToggleRequest struct {
	UserID  string
	StoreID string
}

type ToggleResult struct {
	Favorited bool `json:"favorited"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, favorite *Favorite) error
	Find(ctx context.Context, db *gorm.DB, userID, storeID snowflake.ID) (*Favorite, error)
	Delete(ctx context.Context, db *gorm.DB, userID, storeID snowflake.ID) error
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Favorite, error)
}

type Service interface {
	// Toggle adds the store to the user's favorites, or removes it when
	// already present.
	Toggle(context.Context, ToggleRequest) (ToggleResult, error)
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)
}
