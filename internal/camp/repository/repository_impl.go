package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/camp/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, camp *domain.Camp) error {
	return db.WithContext(ctx).Create(camp).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Camp{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Camp{})
	return result.RowsAffected, result.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Camp, error) {
	var camp domain.Camp
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&camp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &camp, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Camp, error) {
	var camps []domain.Camp
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&camps).Error
	if err != nil {
		return nil, err
	}
	return camps, nil
}

type registrationRepo struct{}

func ProvideRegistrations() domain.RegistrationRepository {
	return &registrationRepo{}
}

func (r *registrationRepo) Insert(ctx context.Context, db *gorm.DB, registration *domain.CampRegistration) error {
	return db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepo) List(ctx context.Context, db *gorm.DB) ([]domain.CampRegistration, error) {
	var registrations []domain.CampRegistration
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *registrationRepo) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.CampRegistration, error) {
	var registrations []domain.CampRegistration
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}
