package domain

import (
	"context"
	"errors"
)

type CreateCampRequest struct {
	CampName      string
	Place         string
	Date          string
	Time          string
	ContactNumber string
	EmailAddress  string
	Organizer     string
	Message       string
}

type UpdateCampRequest struct {
	CampName      *string
	Place         *string
	Date          *string
	Time          *string
	ContactNumber *string
	EmailAddress  *string
	Organizer     *string
	Message       *string
}

type RegisterRequest struct {
	UserID string
	CampID string
}

type Service interface {
	Create(ctx context.Context, req CreateCampRequest) (Camp, error)
	Update(ctx context.Context, id string, req UpdateCampRequest) (Camp, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Camp, error)
	List(ctx context.Context) ([]Camp, error)

	Register(ctx context.Context, req RegisterRequest) (CampRegistration, error)
	ListRegistrations(ctx context.Context) ([]CampRegistration, error)
	ListRegistrationsByUser(ctx context.Context, userID string) ([]CampRegistration, error)
}

var (
	ErrMissingFields         = errors.New("missing_required_fields")
	ErrMissingUser           = errors.New("missing_user")
	ErrInvalidID             = errors.New("invalid_id")
	ErrCampNotFound          = errors.New("camp_not_found")
	ErrDuplicateRegistration = errors.New("duplicate_registration")
)
