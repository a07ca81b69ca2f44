package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, request *BloodRequest) error
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BloodRequest, error)
	List(ctx context.Context, db *gorm.DB) ([]BloodRequest, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]BloodRequest, error)
}
