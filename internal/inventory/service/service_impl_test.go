package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lifedrop/lifedrop/internal/events"
	"github.com/lifedrop/lifedrop/internal/inventory/domain"
	invrepository "github.com/lifedrop/lifedrop/internal/inventory/repository"
	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
	issuancerepository "github.com/lifedrop/lifedrop/internal/issuance/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T, name string) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.BloodPacket{},
		&issuancedomain.IssuanceRecord{},
		&events.OutboxEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       invrepository.Provide(),
		LedgerRepo: issuancerepository.Provide(),
		Outbox:     events.NewOutbox(node),
	})
	return svc, db
}

func createPacket(t *testing.T, svc domain.Service, bloodType string, units int) domain.BloodPacket {
	t.Helper()

	packet, err := svc.CreatePacket(context.Background(), domain.CreatePacketRequest{
		BloodType:    bloodType,
		Units:        units,
		DonorName:    "Asha Rao",
		DonorPhone:   "9876543210",
		DonorAge:     29,
		DonationDate: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return packet
}

func TestCreatePacketValidation(t *testing.T) {
	svc, _ := setupService(t, "inv_create_validation")
	ctx := context.Background()

	_, err := svc.CreatePacket(ctx, domain.CreatePacketRequest{Units: 5})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.CreatePacket(ctx, domain.CreatePacketRequest{
		BloodType:    "O+",
		Units:        0,
		DonorName:    "Asha Rao",
		DonorPhone:   "9876543210",
		DonorAge:     29,
		DonationDate: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUnits)
}

func TestCreatePacketGeneratesCode(t *testing.T) {
	svc, _ := setupService(t, "inv_create_code")

	packet := createPacket(t, svc, "O+", 10)
	assert.Regexp(t, `^BP\d{11}$`, packet.PacketID)
	assert.NotZero(t, packet.ID)
}

func TestIssueLifecycle(t *testing.T) {
	svc, db := setupService(t, "inv_issue_lifecycle")
	ctx := context.Background()

	packet := createPacket(t, svc, "O+", 10)

	result, err := svc.Issue(ctx, domain.IssueRequest{
		BloodType:   "O+",
		Units:       3,
		DoctorName:  "Dr. Mehta",
		PatientName: "Ravi",
		Reason:      "surgery",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.RemainingUnits)
	assert.Equal(t, 3, result.Record.UnitsIssued)
	assert.Equal(t, 7, result.Record.RemainingUnits)

	// Ledger snapshot must match the packet read back immediately after.
	var stored domain.BloodPacket
	require.NoError(t, db.First(&stored, "id = ?", packet.ID).Error)
	assert.Equal(t, 7, stored.Units)

	var entries []issuancedomain.IssuanceRecord
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].RemainingUnits)

	// Over-issuing fails with the available balance and mutates nothing.
	_, err = svc.Issue(ctx, domain.IssueRequest{BloodType: "O+", Units: 8})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 7, insufficient.Available)
	assert.Equal(t, 8, insufficient.Requested)

	require.NoError(t, db.First(&stored, "id = ?", packet.ID).Error)
	assert.Equal(t, 7, stored.Units)
	require.NoError(t, db.Find(&entries).Error)
	assert.Len(t, entries, 1)

	// Draining to zero succeeds.
	result, err = svc.Issue(ctx, domain.IssueRequest{BloodType: "O+", Units: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemainingUnits)

	// Conservation: issued units plus current balance equals the
	// initial stock.
	require.NoError(t, db.Find(&entries).Error)
	total := 0
	for _, entry := range entries {
		total += entry.UnitsIssued
	}
	require.NoError(t, db.First(&stored, "id = ?", packet.ID).Error)
	assert.Equal(t, 10, total+stored.Units)

	// A depleted packet still resolves by type but cannot be issued.
	_, err = svc.Issue(ctx, domain.IssueRequest{BloodType: "O+", Units: 1})
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
}

func TestIssueUnknownBloodType(t *testing.T) {
	svc, _ := setupService(t, "inv_issue_unknown")

	_, err := svc.Issue(context.Background(), domain.IssueRequest{BloodType: "AB-", Units: 1})
	assert.ErrorIs(t, err, domain.ErrBloodTypeNotFound)
}

func TestIssueValidation(t *testing.T) {
	svc, _ := setupService(t, "inv_issue_validation")
	ctx := context.Background()

	_, err := svc.Issue(ctx, domain.IssueRequest{Units: 1})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.Issue(ctx, domain.IssueRequest{BloodType: "O+", Units: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidUnits)
}

func TestIssueWritesOutboxEvent(t *testing.T) {
	svc, db := setupService(t, "inv_issue_outbox")

	createPacket(t, svc, "B+", 4)
	result, err := svc.Issue(context.Background(), domain.IssueRequest{BloodType: "B+", Units: 2, RequestID: "req-1"})
	require.NoError(t, err)

	var event events.OutboxEvent
	require.NoError(t, db.First(&event, "type = ?", events.EventIssuanceCreated).Error)
	assert.Equal(t, events.StatusPending, event.Status)
	assert.Equal(t, "issuance:"+result.Record.ID.String(), event.DedupeKey)
	assert.Equal(t, "req-1", event.Payload["request_id"])
}

func TestConcurrentIssuesNeverOverIssue(t *testing.T) {
	svc, db := setupService(t, "inv_issue_concurrent")
	ctx := context.Background()

	packet := createPacket(t, svc, "A-", 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	units := []int{5, 3}
	for i := range units {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Issue(ctx, domain.IssueRequest{BloodType: "A-", Units: units[i]})
		}(i)
	}
	wg.Wait()

	successes := 0
	insufficients := 0
	for _, err := range errs {
		var insufficient *domain.InsufficientStockError
		switch {
		case err == nil:
			successes++
		case errors.As(err, &insufficient):
			insufficients++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, insufficients)

	var stored domain.BloodPacket
	require.NoError(t, db.First(&stored, "id = ?", packet.ID).Error)
	assert.GreaterOrEqual(t, stored.Units, 0)

	var entries []issuancedomain.IssuanceRecord
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].UnitsIssued+stored.Units)
}

func TestStockSummaryOrderingAndIdempotence(t *testing.T) {
	svc, _ := setupService(t, "inv_summary")
	ctx := context.Background()

	createPacket(t, svc, "O+", 5)
	createPacket(t, svc, "O+", 3)
	createPacket(t, svc, "AB-", 2)

	first, err := svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "AB-", first[0].BloodType)
	assert.Equal(t, 2, first[0].TotalUnits)
	assert.Equal(t, 1, first[0].TotalPackets)
	assert.Equal(t, "O+", first[1].BloodType)
	assert.Equal(t, 8, first[1].TotalUnits)
	assert.Equal(t, 2, first[1].TotalPackets)

	second, err := svc.StockSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchPacketByIDCaseInsensitive(t *testing.T) {
	svc, db := setupService(t, "inv_search")
	ctx := context.Background()

	packet := createPacket(t, svc, "O+", 5)
	require.NoError(t, db.Model(&domain.BloodPacket{}).
		Where("id = ?", packet.ID).
		Update("packet_id", "BP10230456").Error)

	found, err := svc.SearchPacketByID(ctx, "bp1023")
	require.NoError(t, err)
	assert.Equal(t, "BP10230456", found.PacketID)

	_, err = svc.SearchPacketByID(ctx, "zzzz")
	assert.ErrorIs(t, err, domain.ErrPacketNotFound)
}

func TestUpdatePacketAllowList(t *testing.T) {
	svc, _ := setupService(t, "inv_update")
	ctx := context.Background()

	packet := createPacket(t, svc, "O+", 5)

	newUnits := 12
	notes := "restocked after audit"
	updated, err := svc.UpdatePacket(ctx, packet.ID.String(), domain.UpdatePacketRequest{
		Units: &newUnits,
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Units)
	assert.Equal(t, "restocked after audit", updated.Notes)
	assert.Equal(t, packet.PacketID, updated.PacketID)

	negative := -1
	_, err = svc.UpdatePacket(ctx, packet.ID.String(), domain.UpdatePacketRequest{Units: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidUnits)

	_, err = svc.UpdatePacket(ctx, "123456789", domain.UpdatePacketRequest{Units: &newUnits})
	assert.ErrorIs(t, err, domain.ErrPacketNotFound)
}

func TestDeletePacket(t *testing.T) {
	svc, _ := setupService(t, "inv_delete")
	ctx := context.Background()

	packet := createPacket(t, svc, "O+", 5)
	require.NoError(t, svc.DeletePacket(ctx, packet.ID.String()))

	_, err := svc.GetPacket(ctx, packet.ID.String())
	assert.ErrorIs(t, err, domain.ErrPacketNotFound)

	err = svc.DeletePacket(ctx, packet.ID.String())
	assert.ErrorIs(t, err, domain.ErrPacketNotFound)
}

func TestListPacketsNewestFirst(t *testing.T) {
	svc, _ := setupService(t, "inv_list")
	ctx := context.Background()

	first := createPacket(t, svc, "O+", 5)
	second := createPacket(t, svc, "A+", 3)

	packets, err := svc.ListPackets(ctx)
	require.NoError(t, err)
	require.Len(t, packets, 2)
	assert.Equal(t, second.ID, packets[0].ID)
	assert.Equal(t, first.ID, packets[1].ID)
}

func TestFindByTypeDrainsOldestFirst(t *testing.T) {
	svc, db := setupService(t, "inv_oldest_first")
	ctx := context.Background()

	older := createPacket(t, svc, "O+", 5)
	require.NoError(t, db.Model(&domain.BloodPacket{}).
		Where("id = ?", older.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)
	createPacket(t, svc, "O+", 9)

	result, err := svc.Issue(ctx, domain.IssueRequest{BloodType: "O+", Units: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, result.RemainingUnits)

	var stored domain.BloodPacket
	require.NoError(t, db.First(&stored, "id = ?", older.ID).Error)
	assert.Equal(t, 3, stored.Units)
}
