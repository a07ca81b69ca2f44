package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
	"github.com/lifedrop/lifedrop/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Outbox *events.Outbox `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	outbox *events.Outbox
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("bloodrequest.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		outbox: p.Outbox,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.BloodRequest, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.BloodRequest{}, domain.ErrMissingUser
	}
	if strings.TrimSpace(req.PatientName) == "" ||
		req.Age == 0 ||
		strings.TrimSpace(req.Gender) == "" ||
		strings.TrimSpace(req.BloodType) == "" ||
		req.UnitsRequired <= 0 ||
		strings.TrimSpace(req.UrgencyLevel) == "" ||
		strings.TrimSpace(req.WardNumber) == "" ||
		strings.TrimSpace(req.ContactNumber) == "" ||
		strings.TrimSpace(req.MedicalCondition) == "" {
		return domain.BloodRequest{}, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	request := domain.BloodRequest{
		ID:                 s.genID.Generate(),
		UserID:             userID,
		PatientName:        strings.TrimSpace(req.PatientName),
		Age:                req.Age,
		Gender:             strings.TrimSpace(req.Gender),
		BloodType:          strings.TrimSpace(req.BloodType),
		UnitsRequired:      req.UnitsRequired,
		UrgencyLevel:       strings.TrimSpace(req.UrgencyLevel),
		WardNumber:         strings.TrimSpace(req.WardNumber),
		ContactNumber:      strings.TrimSpace(req.ContactNumber),
		MedicalCondition:   strings.TrimSpace(req.MedicalCondition),
		SurgeryDate:        req.SurgeryDate,
		AdditionalNotes:    strings.TrimSpace(req.AdditionalNotes),
		DTFormUpload:       strings.TrimSpace(req.DTFormUpload),
		Status:             domain.StatusPending,
		ConfirmationStatus: domain.ConfirmationUnconfirmed,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &request); err != nil {
			return err
		}
		if s.outbox != nil {
			payload := map[string]any{
				"request_id":   request.ID.String(),
				"user_id":      request.UserID,
				"patient_name": request.PatientName,
				"blood_type":   request.BloodType,
				"units":        request.UnitsRequired,
			}
			return s.outbox.PublishTx(ctx, tx, events.Event{
				Type:      events.EventBloodRequestCreated,
				Payload:   payload,
				DedupeKey: "blood_request:" + request.ID.String(),
			})
		}
		return nil
	})
	if err != nil {
		return domain.BloodRequest{}, err
	}

	return request, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.BloodRequest, error) {
	requestID, err := s.parseID(id)
	if err != nil {
		return domain.BloodRequest{}, err
	}

	fields := map[string]any{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	setString("patient_name", req.PatientName)
	setString("gender", req.Gender)
	setString("blood_type", req.BloodType)
	setString("urgency_level", req.UrgencyLevel)
	setString("ward_number", req.WardNumber)
	setString("contact_number", req.ContactNumber)
	setString("medical_condition", req.MedicalCondition)
	setString("additional_notes", req.AdditionalNotes)
	setString("dt_form_upload", req.DTFormUpload)
	setString("status", req.Status)
	setString("confirmation_status", req.ConfirmationStatus)
	setString("user_id", req.UserID)
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.UnitsRequired != nil {
		fields["units_required"] = *req.UnitsRequired
	}
	if req.SurgeryDate != nil {
		fields["surgery_date"] = *req.SurgeryDate
	}

	return s.applyUpdate(ctx, requestID, fields)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.BloodRequest, error) {
	requestID, err := s.parseID(id)
	if err != nil {
		return domain.BloodRequest{}, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return domain.BloodRequest{}, domain.ErrMissingStatus
	}
	return s.applyUpdate(ctx, requestID, map[string]any{"status": status})
}

func (s *Service) UpdateConfirmation(ctx context.Context, id, confirmationStatus string) (domain.BloodRequest, error) {
	requestID, err := s.parseID(id)
	if err != nil {
		return domain.BloodRequest{}, err
	}
	confirmationStatus = strings.TrimSpace(confirmationStatus)
	if confirmationStatus == "" {
		return domain.BloodRequest{}, domain.ErrMissingConfirmation
	}
	return s.applyUpdate(ctx, requestID, map[string]any{"confirmation_status": confirmationStatus})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	requestID, err := s.parseID(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, requestID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.BloodRequest, error) {
	requestID, err := s.parseID(id)
	if err != nil {
		return domain.BloodRequest{}, err
	}

	request, err := s.repo.FindByID(ctx, s.db, requestID)
	if err != nil {
		return domain.BloodRequest{}, err
	}
	if request == nil {
		return domain.BloodRequest{}, domain.ErrNotFound
	}
	return *request, nil
}

func (s *Service) List(ctx context.Context) ([]domain.BloodRequest, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.BloodRequest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *Service) applyUpdate(ctx context.Context, id snowflake.ID, fields map[string]any) (domain.BloodRequest, error) {
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		rows, err := s.repo.Update(ctx, s.db, id, fields)
		if err != nil {
			return domain.BloodRequest{}, err
		}
		if rows == 0 {
			return domain.BloodRequest{}, domain.ErrNotFound
		}
	}

	request, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BloodRequest{}, err
	}
	if request == nil {
		return domain.BloodRequest{}, domain.ErrNotFound
	}
	return *request, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
