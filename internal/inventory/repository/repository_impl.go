package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, packet *domain.BloodPacket) error {
	return db.WithContext(ctx).Create(packet).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.BloodPacket{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.BloodPacket{})
	return result.RowsAffected, result.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BloodPacket, error) {
	var packet domain.BloodPacket
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&packet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &packet, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.BloodPacket, error) {
	var packets []domain.BloodPacket
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&packets).Error
	if err != nil {
		return nil, err
	}
	return packets, nil
}

func (r *repo) FindByType(ctx context.Context, db *gorm.DB, bloodType string) (*domain.BloodPacket, error) {
	var packet domain.BloodPacket
	err := db.WithContext(ctx).
		Where("blood_type = ?", bloodType).
		Order("created_at asc, id asc").
		First(&packet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &packet, nil
}

func (r *repo) SearchByPacketID(ctx context.Context, db *gorm.DB, pattern string) (*domain.BloodPacket, error) {
	var packet domain.BloodPacket
	like := "%" + strings.ToLower(strings.TrimSpace(pattern)) + "%"
	err := db.WithContext(ctx).
		Where("LOWER(packet_id) LIKE ?", like).
		Order("created_at asc, id asc").
		First(&packet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &packet, nil
}

func (r *repo) AggregateStockByType(ctx context.Context, db *gorm.DB) ([]domain.StockSummary, error) {
	var summaries []domain.StockSummary
	err := db.WithContext(ctx).
		Model(&domain.BloodPacket{}).
		Select("blood_type AS blood_type, SUM(units) AS total_units, COUNT(*) AS total_packets, MAX(donation_date) AS latest_donation").
		Group("blood_type").
		Order("blood_type asc").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repo) DebitIfSufficient(ctx context.Context, db *gorm.DB, id snowflake.ID, units int) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE blood_packets SET units = units - ?, updated_at = ? WHERE id = ? AND units >= ?`,
		units,
		time.Now().UTC(),
		id,
		units,
	)
	return result.RowsAffected, result.Error
}
