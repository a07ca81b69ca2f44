package notification

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	bloodrequestdomain "github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
	"github.com/lifedrop/lifedrop/internal/events"
	"github.com/lifedrop/lifedrop/internal/notification/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Subscriber turns domain events into in-app notifications. It runs on
// the outbox dispatcher, outside the publishing transaction, so a
// notification failure never rolls back an issuance or request.
type Subscriber struct {
	db          *gorm.DB
	log         *zap.Logger
	service     domain.Service
	requestRepo bloodrequestdomain.Repository
}

func NewSubscriber(db *gorm.DB, log *zap.Logger, service domain.Service, requestRepo bloodrequestdomain.Repository) *Subscriber {
	return &Subscriber{
		db:          db,
		log:         log.Named("notification.subscriber"),
		service:     service,
		requestRepo: requestRepo,
	}
}

func (s *Subscriber) Register(dispatcher *events.Dispatcher) {
	dispatcher.Subscribe(events.EventBloodRequestCreated, s.onBloodRequestCreated)
	dispatcher.Subscribe(events.EventIssuanceCreated, s.onIssuanceCreated)
}

func (s *Subscriber) onBloodRequestCreated(ctx context.Context, event events.OutboxEvent) error {
	userID, _ := event.Payload["user_id"].(string)
	patientName, _ := event.Payload["patient_name"].(string)
	requestID, _ := event.Payload["request_id"].(string)
	if userID == "" {
		s.log.Warn("blood request event without user", zap.String("event_id", event.ID.String()))
		return nil
	}

	_, err := s.service.Create(ctx, domain.CreateRequest{
		UserID:         userID,
		Type:           domain.TypeBloodRequest,
		Message:        fmt.Sprintf("New blood request created for patient %s", patientName),
		RelatedRequest: requestID,
	})
	return err
}

func (s *Subscriber) onIssuanceCreated(ctx context.Context, event events.OutboxEvent) error {
	requestID, _ := event.Payload["request_id"].(string)
	if requestID == "" {
		// Walk-in issuance with no originating request, nobody to notify.
		return nil
	}

	request, err := s.resolveRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		s.log.Warn("issuance references unknown blood request", zap.String("request_id", requestID))
		return nil
	}

	bloodType, _ := event.Payload["blood_type"].(string)
	units, _ := event.Payload["units_issued"].(float64)

	_, err = s.service.Create(ctx, domain.CreateRequest{
		UserID:         request.UserID,
		Type:           domain.TypeIssuance,
		Message:        fmt.Sprintf("%d unit(s) of %s issued for patient %s", int(units), bloodType, request.PatientName),
		RelatedRequest: requestID,
	})
	return err
}

func (s *Subscriber) resolveRequest(ctx context.Context, requestID string) (*bloodrequestdomain.BloodRequest, error) {
	id, err := snowflake.ParseString(requestID)
	if err != nil || id == 0 {
		return nil, nil
	}
	return s.requestRepo.FindByID(ctx, s.db, id)
}
