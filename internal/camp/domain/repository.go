package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, camp *Camp) error
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Camp, error)
	List(ctx context.Context, db *gorm.DB) ([]Camp, error)
}

type RegistrationRepository interface {
	Insert(ctx context.Context, db *gorm.DB, registration *CampRegistration) error
	List(ctx context.Context, db *gorm.DB) ([]CampRegistration, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]CampRegistration, error)
}
