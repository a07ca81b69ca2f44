package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/events"
	"github.com/lifedrop/lifedrop/internal/inventory/cache"
	"github.com/lifedrop/lifedrop/internal/inventory/domain"
	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
	"github.com/lifedrop/lifedrop/internal/observability/metrics"
	"github.com/lifedrop/lifedrop/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const packetCodeRetries = 3

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	LedgerRepo issuancedomain.Repository
	Outbox     *events.Outbox     `optional:"true"`
	Cache      *cache.StockCache  `optional:"true"`
	Metrics    *metrics.Metrics   `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	ledgerRepo issuancedomain.Repository
	outbox     *events.Outbox
	cache      *cache.StockCache
	metrics    *metrics.Metrics

	mu        sync.Mutex
	typeLocks map[string]*sync.Mutex
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("inventory.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		ledgerRepo: p.LedgerRepo,
		outbox:     p.Outbox,
		cache:      p.Cache,
		metrics:    p.Metrics,
		typeLocks:  map[string]*sync.Mutex{},
	}
}

func (s *Service) CreatePacket(ctx context.Context, req domain.CreatePacketRequest) (domain.BloodPacket, error) {
	bloodType := strings.TrimSpace(req.BloodType)
	donorName := strings.TrimSpace(req.DonorName)
	donorPhone := strings.TrimSpace(req.DonorPhone)
	if bloodType == "" || donorName == "" || donorPhone == "" || req.DonorAge == 0 || req.DonationDate.IsZero() {
		return domain.BloodPacket{}, domain.ErrMissingFields
	}
	if req.Units <= 0 {
		return domain.BloodPacket{}, domain.ErrInvalidUnits
	}

	var lastErr error
	for attempt := 0; attempt < packetCodeRetries; attempt++ {
		now := time.Now().UTC()
		packet := domain.BloodPacket{
			ID:           s.genID.Generate(),
			PacketID:     newPacketCode(now),
			BloodType:    bloodType,
			Units:        req.Units,
			DonorName:    donorName,
			DonorPhone:   donorPhone,
			DonorAge:     req.DonorAge,
			DonationDate: req.DonationDate,
			Notes:        strings.TrimSpace(req.Notes),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err := s.repo.Insert(ctx, s.db, &packet)
		if err == nil {
			s.invalidateSummary(ctx)
			return packet, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return domain.BloodPacket{}, err
		}
		lastErr = err
		s.log.Warn("packet code collision, regenerating",
			zap.String("packet_id", packet.PacketID),
			zap.Int("attempt", attempt+1),
		)
	}

	s.log.Error("packet code collisions exhausted retries", zap.Error(lastErr))
	return domain.BloodPacket{}, domain.ErrPacketIDCollision
}

func (s *Service) UpdatePacket(ctx context.Context, id string, req domain.UpdatePacketRequest) (domain.BloodPacket, error) {
	packetID, err := s.parseID(id)
	if err != nil {
		return domain.BloodPacket{}, err
	}

	fields := map[string]any{}
	if req.BloodType != nil {
		if strings.TrimSpace(*req.BloodType) == "" {
			return domain.BloodPacket{}, domain.ErrMissingFields
		}
		fields["blood_type"] = strings.TrimSpace(*req.BloodType)
	}
	if req.Units != nil {
		if *req.Units < 0 {
			return domain.BloodPacket{}, domain.ErrInvalidUnits
		}
		fields["units"] = *req.Units
	}
	if req.DonorName != nil {
		fields["donor_name"] = strings.TrimSpace(*req.DonorName)
	}
	if req.DonorPhone != nil {
		fields["donor_phone"] = strings.TrimSpace(*req.DonorPhone)
	}
	if req.DonorAge != nil {
		fields["donor_age"] = *req.DonorAge
	}
	if req.DonationDate != nil {
		fields["donation_date"] = *req.DonationDate
	}
	if req.Notes != nil {
		fields["notes"] = strings.TrimSpace(*req.Notes)
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		rows, err := s.repo.Update(ctx, s.db, packetID, fields)
		if err != nil {
			return domain.BloodPacket{}, err
		}
		if rows == 0 {
			return domain.BloodPacket{}, domain.ErrPacketNotFound
		}
		s.invalidateSummary(ctx)
	}

	packet, err := s.repo.FindByID(ctx, s.db, packetID)
	if err != nil {
		return domain.BloodPacket{}, err
	}
	if packet == nil {
		return domain.BloodPacket{}, domain.ErrPacketNotFound
	}
	return *packet, nil
}

func (s *Service) DeletePacket(ctx context.Context, id string) error {
	packetID, err := s.parseID(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, packetID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPacketNotFound
	}

	s.invalidateSummary(ctx)
	return nil
}

func (s *Service) GetPacket(ctx context.Context, id string) (domain.BloodPacket, error) {
	packetID, err := s.parseID(id)
	if err != nil {
		return domain.BloodPacket{}, err
	}

	packet, err := s.repo.FindByID(ctx, s.db, packetID)
	if err != nil {
		return domain.BloodPacket{}, err
	}
	if packet == nil {
		return domain.BloodPacket{}, domain.ErrPacketNotFound
	}
	return *packet, nil
}

func (s *Service) ListPackets(ctx context.Context) ([]domain.BloodPacket, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) SearchPacketByID(ctx context.Context, pattern string) (domain.BloodPacket, error) {
	if strings.TrimSpace(pattern) == "" {
		return domain.BloodPacket{}, domain.ErrMissingFields
	}

	packet, err := s.repo.SearchByPacketID(ctx, s.db, pattern)
	if err != nil {
		return domain.BloodPacket{}, err
	}
	if packet == nil {
		return domain.BloodPacket{}, domain.ErrPacketNotFound
	}
	return *packet, nil
}

func (s *Service) StockSummary(ctx context.Context) ([]domain.StockSummary, error) {
	if cached, err := s.cache.Get(ctx); err != nil {
		s.log.Warn("stock summary cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	summaries, err := s.repo.AggregateStockByType(ctx, s.db)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, summaries); err != nil {
		s.log.Warn("stock summary cache write failed", zap.Error(err))
	}
	return summaries, nil
}

// Issue debits the oldest packet of the requested type and appends the
// ledger entry in the same transaction. The per-type lock serializes
// concurrent issuances so the conditional decrement never races the
// in-transaction balance re-read.
func (s *Service) Issue(ctx context.Context, req domain.IssueRequest) (domain.IssueResult, error) {
	bloodType := strings.TrimSpace(req.BloodType)
	if bloodType == "" {
		return domain.IssueResult{}, domain.ErrMissingFields
	}
	if req.Units <= 0 {
		return domain.IssueResult{}, domain.ErrInvalidUnits
	}

	lock := s.lockForType(bloodType)
	lock.Lock()
	defer lock.Unlock()

	var result domain.IssueResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		packet, err := s.repo.FindByType(ctx, tx, bloodType)
		if err != nil {
			return err
		}
		if packet == nil {
			return domain.ErrBloodTypeNotFound
		}

		rows, err := s.repo.DebitIfSufficient(ctx, tx, packet.ID, req.Units)
		if err != nil {
			return err
		}
		if rows == 0 {
			current, err := s.repo.FindByID(ctx, tx, packet.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrBloodTypeNotFound
			}
			return &domain.InsufficientStockError{
				BloodType: bloodType,
				Requested: req.Units,
				Available: current.Units,
			}
		}

		debited, err := s.repo.FindByID(ctx, tx, packet.ID)
		if err != nil {
			return err
		}
		if debited == nil {
			return domain.ErrBloodTypeNotFound
		}

		now := time.Now().UTC()
		record := issuancedomain.IssuanceRecord{
			ID:             s.genID.Generate(),
			BloodType:      bloodType,
			UnitsIssued:    req.Units,
			RemainingUnits: debited.Units,
			RequestID:      strings.TrimSpace(req.RequestID),
			DoctorName:     strings.TrimSpace(req.DoctorName),
			PatientName:    strings.TrimSpace(req.PatientName),
			Reason:         strings.TrimSpace(req.Reason),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.ledgerRepo.Append(ctx, tx, &record); err != nil {
			return err
		}

		if s.outbox != nil {
			payload := map[string]any{
				"issuance_id":     record.ID.String(),
				"blood_type":      record.BloodType,
				"units_issued":    record.UnitsIssued,
				"remaining_units": record.RemainingUnits,
				"request_id":      record.RequestID,
				"doctor_name":     record.DoctorName,
				"patient_name":    record.PatientName,
			}
			if err := s.outbox.PublishTx(ctx, tx, events.Event{
				Type:      events.EventIssuanceCreated,
				Payload:   payload,
				DedupeKey: "issuance:" + record.ID.String(),
			}); err != nil {
				return err
			}
		}

		result = domain.IssueResult{
			RemainingUnits: debited.Units,
			Record:         record,
		}
		return nil
	})
	if err != nil {
		if insufficient, ok := errAsInsufficient(err); ok && s.metrics != nil {
			s.metrics.RecordIssuance(insufficient.BloodType, "insufficient", 0)
		}
		return domain.IssueResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordIssuance(bloodType, "issued", req.Units)
	}
	s.invalidateSummary(ctx)
	return result, nil
}

func (s *Service) lockForType(bloodType string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.typeLocks[bloodType]
	if !ok {
		lock = &sync.Mutex{}
		s.typeLocks[bloodType] = lock
	}
	return lock
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("stock summary cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func errAsInsufficient(err error) (*domain.InsufficientStockError, bool) {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return insufficient, true
	}
	return nil, false
}

// newPacketCode builds the human-readable packet code: BP plus the
// last eight digits of the millisecond clock plus a three-digit random
// suffix. Collisions are possible; callers retry on duplicate key.
func newPacketCode(now time.Time) string {
	return fmt.Sprintf("BP%08d%03d", now.UnixMilli()%100000000, 100+rand.Intn(900))
}
