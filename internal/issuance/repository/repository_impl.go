package repository

import (
	"context"

	"github.com/lifedrop/lifedrop/internal/issuance/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Append(ctx context.Context, db *gorm.DB, record *domain.IssuanceRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.IssuanceRecord, error) {
	var records []domain.IssuanceRecord
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
