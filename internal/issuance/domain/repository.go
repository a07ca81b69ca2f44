package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Append(ctx context.Context, db *gorm.DB, record *IssuanceRecord) error
	List(ctx context.Context, db *gorm.DB) ([]IssuanceRecord, error)
}
