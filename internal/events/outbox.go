package events

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventIssuanceCreated     = "issuance.created"
	EventBloodRequestCreated = "blood_request.created"
)

const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Event is what publishers hand to the outbox.
type Event struct {
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// OutboxEvent is the persisted form of an Event.
type OutboxEvent struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	Type        string            `gorm:"not null;index"`
	Payload     datatypes.JSONMap `gorm:"not null;default:'{}'"`
	DedupeKey   string            `gorm:"uniqueIndex"`
	Status      string            `gorm:"not null;default:pending;index"`
	Attempts    int               `gorm:"not null;default:0"`
	LastError   string
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeliveredAt *time.Time
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// Outbox writes events inside the publisher's transaction so a rolled
// back business write never leaves a dangling event.
type Outbox struct {
	genID *snowflake.Node
}

func NewOutbox(genID *snowflake.Node) *Outbox {
	return &Outbox{genID: genID}
}

// PublishTx appends the event to the outbox within tx. A duplicate
// dedupe key is treated as already published.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	now := time.Now().UTC()
	row := OutboxEvent{
		ID:        o.genID.Generate(),
		Type:      event.Type,
		Payload:   datatypes.JSONMap(event.Payload),
		DedupeKey: event.DedupeKey,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if row.Payload == nil {
		row.Payload = datatypes.JSONMap{}
	}

	err := tx.WithContext(ctx).Create(&row).Error
	if err != nil && db.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}
