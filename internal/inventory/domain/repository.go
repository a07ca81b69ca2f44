package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, packet *BloodPacket) error
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BloodPacket, error)
	List(ctx context.Context, db *gorm.DB) ([]BloodPacket, error)

	// FindByType returns the oldest packet of the given type so
	// repeated issuances drain stock deterministically.
	FindByType(ctx context.Context, db *gorm.DB, bloodType string) (*BloodPacket, error)

	// SearchByPacketID matches packetId case-insensitively on a
	// substring and returns the first hit.
	SearchByPacketID(ctx context.Context, db *gorm.DB, pattern string) (*BloodPacket, error)

	AggregateStockByType(ctx context.Context, db *gorm.DB) ([]StockSummary, error)

	// DebitIfSufficient decrements units with the sufficiency check in
	// the WHERE clause. Zero rows affected means the packet either
	// vanished or lacks the units; callers re-read to tell which.
	DebitIfSufficient(ctx context.Context, db *gorm.DB, id snowflake.ID, units int) (int64, error)
}
