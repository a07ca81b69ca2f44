package events

import (
	"context"
	"sync"
	"time"

	"github.com/lifedrop/lifedrop/internal/observability/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPollInterval = 2 * time.Second
	maxAttempts         = 5
	dispatchBatchSize   = 50
)

// Handler consumes a delivered outbox event.
type Handler func(ctx context.Context, event OutboxEvent) error

// Dispatcher drains pending outbox rows and fans them out to
// registered handlers. Delivery runs outside the publisher's
// transaction so a slow or failing subscriber never blocks a write.
type Dispatcher struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	handlers map[string][]Handler

	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewDispatcher(db *gorm.DB, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		db:       db,
		log:      log.Named("events.dispatcher"),
		metrics:  m,
		handlers: map[string][]Handler{},
		interval: defaultPollInterval,
	}
}

// Subscribe registers a handler for an event type. Registration must
// happen before Start.
func (d *Dispatcher) Subscribe(eventType string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.DispatchPending(ctx)
			}
		}
	}()
}

func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DispatchPending delivers one batch of pending events. Exposed so
// tests can drain the outbox without the polling loop.
func (d *Dispatcher) DispatchPending(ctx context.Context) {
	var pending []OutboxEvent
	err := d.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at asc, id asc").
		Limit(dispatchBatchSize).
		Find(&pending).Error
	if err != nil {
		d.log.Error("load pending outbox events", zap.Error(err))
		return
	}

	for _, event := range pending {
		d.deliver(ctx, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event OutboxEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.Type]
	d.mu.RUnlock()

	var deliveryErr error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			deliveryErr = err
			break
		}
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"attempts":   event.Attempts + 1,
		"updated_at": now,
	}

	switch {
	case deliveryErr == nil:
		updates["status"] = StatusDelivered
		updates["delivered_at"] = now
		updates["last_error"] = ""
	case event.Attempts+1 >= maxAttempts:
		updates["status"] = StatusFailed
		updates["last_error"] = deliveryErr.Error()
		d.log.Error("outbox event exhausted retries",
			zap.String("event_type", event.Type),
			zap.String("event_id", event.ID.String()),
			zap.Error(deliveryErr),
		)
	default:
		updates["last_error"] = deliveryErr.Error()
		if d.metrics != nil {
			d.metrics.RecordOutboxRetry()
		}
		d.log.Warn("outbox delivery failed, will retry",
			zap.String("event_type", event.Type),
			zap.Int("attempts", event.Attempts+1),
			zap.Error(deliveryErr),
		)
	}

	if err := d.db.WithContext(ctx).
		Model(&OutboxEvent{}).
		Where("id = ?", event.ID).
		Updates(updates).Error; err != nil {
		d.log.Error("update outbox event", zap.Error(err))
	}
}
