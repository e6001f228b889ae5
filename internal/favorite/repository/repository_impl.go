package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/favorite/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, favorite *domain.Favorite) error {
	return db.WithContext(ctx).Create(favorite).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, userID, storeID snowflake.ID) (*domain.Favorite, error) {
	var favorite domain.Favorite
	err := db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&favorite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, storeID snowflake.ID) error {
	tx := db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Delete(&domain.Favorite{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Preload("Store").
		Preload("Store.Place").
		Preload("Store.Category").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}
