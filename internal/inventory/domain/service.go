package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
)

type CreatePacketRequest struct {
	BloodType    string
	Units        int
	DonorName    string
	DonorPhone   string
	DonorAge     int
	DonationDate time.Time
	Notes        string
}

// UpdatePacketRequest carries the operator-editable fields. Nil means
// leave unchanged; packetId and timestamps are never editable.
type UpdatePacketRequest struct {
	BloodType    *string
	Units        *int
	DonorName    *string
	DonorPhone   *string
	DonorAge     *int
	DonationDate *time.Time
	Notes        *string
}

type IssueRequest struct {
	BloodType   string
	Units       int
	RequestID   string
	DoctorName  string
	PatientName string
	Reason      string
}

type IssueResult struct {
	RemainingUnits int
	Record         issuancedomain.IssuanceRecord
}

type Service interface {
	CreatePacket(ctx context.Context, req CreatePacketRequest) (BloodPacket, error)
	UpdatePacket(ctx context.Context, id string, req UpdatePacketRequest) (BloodPacket, error)
	DeletePacket(ctx context.Context, id string) error
	GetPacket(ctx context.Context, id string) (BloodPacket, error)
	ListPackets(ctx context.Context) ([]BloodPacket, error)
	SearchPacketByID(ctx context.Context, pattern string) (BloodPacket, error)
	StockSummary(ctx context.Context) ([]StockSummary, error)
	Issue(ctx context.Context, req IssueRequest) (IssueResult, error)
}

var (
	ErrMissingFields     = errors.New("missing_required_fields")
	ErrInvalidUnits      = errors.New("invalid_units")
	ErrInvalidID         = errors.New("invalid_id")
	ErrPacketNotFound    = errors.New("packet_not_found")
	ErrBloodTypeNotFound = errors.New("blood_type_not_found")
	ErrPacketIDCollision = errors.New("packet_id_collision")
)

// InsufficientStockError reports the available balance so the caller
// can retry with a smaller amount.
type InsufficientStockError struct {
	BloodType string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.BloodType, e.Requested, e.Available)
}
