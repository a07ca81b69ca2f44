package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	UserID         string
	Type           string
	Message        string
	RelatedRequest string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Notification, error)
	List(ctx context.Context) ([]Notification, error)
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

var (
	ErrMissingFields = errors.New("missing_required_fields")
	ErrMissingUser   = errors.New("missing_user")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
