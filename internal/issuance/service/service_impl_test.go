package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lifedrop/lifedrop/internal/issuance/domain"
	"github.com/lifedrop/lifedrop/internal/issuance/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestListNewestFirst(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:issuance_list?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.IssuanceRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})

	older := domain.IssuanceRecord{
		ID:             node.Generate(),
		BloodType:      "O+",
		UnitsIssued:    2,
		RemainingUnits: 8,
		CreatedAt:      time.Now().UTC().Add(-time.Hour),
		UpdatedAt:      time.Now().UTC().Add(-time.Hour),
	}
	newer := domain.IssuanceRecord{
		ID:             node.Generate(),
		BloodType:      "A-",
		UnitsIssued:    1,
		RemainingUnits: 3,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}
