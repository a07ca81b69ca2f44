package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	UserID           string
	PatientName      string
	Age              int
	Gender           string
	BloodType        string
	UnitsRequired    int
	UrgencyLevel     string
	WardNumber       string
	ContactNumber    string
	MedicalCondition string
	SurgeryDate      *time.Time
	AdditionalNotes  string
	DTFormUpload     string
}

type UpdateRequest struct {
	PatientName        *string
	Age                *int
	Gender             *string
	BloodType          *string
	UnitsRequired      *int
	UrgencyLevel       *string
	WardNumber         *string
	ContactNumber      *string
	MedicalCondition   *string
	SurgeryDate        *time.Time
	AdditionalNotes    *string
	DTFormUpload       *string
	Status             *string
	ConfirmationStatus *string
	UserID             *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (BloodRequest, error)
	Update(ctx context.Context, id string, req UpdateRequest) (BloodRequest, error)
	UpdateStatus(ctx context.Context, id, status string) (BloodRequest, error)
	UpdateConfirmation(ctx context.Context, id, confirmationStatus string) (BloodRequest, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (BloodRequest, error)
	List(ctx context.Context) ([]BloodRequest, error)
	ListByUser(ctx context.Context, userID string) ([]BloodRequest, error)
}

var (
	ErrMissingFields       = errors.New("missing_required_fields")
	ErrMissingUser         = errors.New("missing_user")
	ErrMissingStatus       = errors.New("missing_status")
	ErrMissingConfirmation = errors.New("missing_confirmation_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
