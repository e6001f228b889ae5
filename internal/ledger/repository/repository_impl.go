package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/ledger/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindOne(ctx context.Context, db *gorm.DB, userID, storeID snowflake.ID, usageDate string) (*domain.UsageRecord, error) {
	var record domain.UsageRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND store_id = ? AND usage_date = ?",
			userID, storeID, usageDate).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]domain.UsageRecord, error) {
	var records []domain.UsageRecord
	stmt := db.WithContext(ctx).
		Model(&domain.UsageRecord{}).
		Where("user_id = ?", userID).
		Order("used_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	err := stmt.Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
