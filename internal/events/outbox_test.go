package events

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOutboxDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&OutboxEvent{}))
	return db
}

func TestPublishTxDedupes(t *testing.T) {
	db := setupOutboxDB(t, "outbox_dedupe")
	ctx := context.Background()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	outbox := NewOutbox(node)

	event := Event{
		Type:      EventIssuanceCreated,
		Payload:   map[string]any{"blood_type": "O+"},
		DedupeKey: "issuance:42",
	}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return outbox.PublishTx(ctx, tx, event)
	}))
	// Publishing the same dedupe key again is a no-op, not an error.
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return outbox.PublishTx(ctx, tx, event)
	}))

	var count int64
	require.NoError(t, db.Model(&OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPublishTxRollsBackWithTransaction(t *testing.T) {
	db := setupOutboxDB(t, "outbox_rollback")
	ctx := context.Background()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	outbox := NewOutbox(node)

	boom := errors.New("business write failed")
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := outbox.PublishTx(ctx, tx, Event{Type: EventIssuanceCreated, DedupeKey: "issuance:7"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDispatchPendingDelivers(t *testing.T) {
	db := setupOutboxDB(t, "outbox_deliver")
	ctx := context.Background()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	outbox := NewOutbox(node)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return outbox.PublishTx(ctx, tx, Event{
			Type:      EventBloodRequestCreated,
			Payload:   map[string]any{"request_id": "1"},
			DedupeKey: "blood_request:1",
		})
	}))

	dispatcher := NewDispatcher(db, zap.NewNop(), nil)
	var delivered []OutboxEvent
	dispatcher.Subscribe(EventBloodRequestCreated, func(ctx context.Context, event OutboxEvent) error {
		delivered = append(delivered, event)
		return nil
	})

	dispatcher.DispatchPending(ctx)
	require.Len(t, delivered, 1)
	assert.Equal(t, "1", delivered[0].Payload["request_id"])

	var stored OutboxEvent
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, StatusDelivered, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	assert.NotNil(t, stored.DeliveredAt)

	// Delivered events are not picked up again.
	dispatcher.DispatchPending(ctx)
	assert.Len(t, delivered, 1)
}

func TestDispatchPendingRetriesThenFails(t *testing.T) {
	db := setupOutboxDB(t, "outbox_retry")
	ctx := context.Background()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	outbox := NewOutbox(node)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return outbox.PublishTx(ctx, tx, Event{Type: EventIssuanceCreated, DedupeKey: "issuance:9"})
	}))

	dispatcher := NewDispatcher(db, zap.NewNop(), nil)
	attempts := 0
	dispatcher.Subscribe(EventIssuanceCreated, func(ctx context.Context, event OutboxEvent) error {
		attempts++
		return errors.New("subscriber down")
	})

	for i := 0; i < maxAttempts; i++ {
		dispatcher.DispatchPending(ctx)
	}
	assert.Equal(t, maxAttempts, attempts)

	var stored OutboxEvent
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, maxAttempts, stored.Attempts)
	assert.Equal(t, "subscriber down", stored.LastError)

	// Failed events are never retried.
	dispatcher.DispatchPending(ctx)
	assert.Equal(t, maxAttempts, attempts)
}
