package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/camp/domain"
	"github.com/lifedrop/lifedrop/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	GenID            *snowflake.Node
	Repo             domain.Repository
	RegistrationRepo domain.RegistrationRepository
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	genID            *snowflake.Node
	repo             domain.Repository
	registrationRepo domain.RegistrationRepository
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("camp.service"),
		genID:            p.GenID,
		repo:             p.Repo,
		registrationRepo: p.RegistrationRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCampRequest) (domain.Camp, error) {
	if strings.TrimSpace(req.CampName) == "" ||
		strings.TrimSpace(req.Place) == "" ||
		strings.TrimSpace(req.Date) == "" ||
		strings.TrimSpace(req.Time) == "" ||
		strings.TrimSpace(req.ContactNumber) == "" ||
		strings.TrimSpace(req.EmailAddress) == "" ||
		strings.TrimSpace(req.Organizer) == "" {
		return domain.Camp{}, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	camp := domain.Camp{
		ID:            s.genID.Generate(),
		CampName:      strings.TrimSpace(req.CampName),
		Place:         strings.TrimSpace(req.Place),
		Date:          strings.TrimSpace(req.Date),
		Time:          strings.TrimSpace(req.Time),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		EmailAddress:  strings.TrimSpace(req.EmailAddress),
		Organizer:     strings.TrimSpace(req.Organizer),
		Message:       strings.TrimSpace(req.Message),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &camp); err != nil {
		return domain.Camp{}, err
	}
	return camp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCampRequest) (domain.Camp, error) {
	campID, err := s.parseID(id)
	if err != nil {
		return domain.Camp{}, err
	}

	fields := map[string]any{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	setString("camp_name", req.CampName)
	setString("place", req.Place)
	setString("date", req.Date)
	setString("time", req.Time)
	setString("contact_number", req.ContactNumber)
	setString("email_address", req.EmailAddress)
	setString("organizer", req.Organizer)
	setString("message", req.Message)

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		rows, err := s.repo.Update(ctx, s.db, campID, fields)
		if err != nil {
			return domain.Camp{}, err
		}
		if rows == 0 {
			return domain.Camp{}, domain.ErrCampNotFound
		}
	}

	camp, err := s.repo.FindByID(ctx, s.db, campID)
	if err != nil {
		return domain.Camp{}, err
	}
	if camp == nil {
		return domain.Camp{}, domain.ErrCampNotFound
	}
	return *camp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	campID, err := s.parseID(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, campID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCampNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Camp, error) {
	campID, err := s.parseID(id)
	if err != nil {
		return domain.Camp{}, err
	}

	camp, err := s.repo.FindByID(ctx, s.db, campID)
	if err != nil {
		return domain.Camp{}, err
	}
	if camp == nil {
		return domain.Camp{}, domain.ErrCampNotFound
	}
	return *camp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Camp, error) {
	return s.repo.List(ctx, s.db)
}

// Register links a user to a camp. The unique index on user+camp turns
// a double registration into a conflict rather than a second row.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.CampRegistration, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.CampRegistration{}, domain.ErrMissingUser
	}
	campID, err := s.parseID(req.CampID)
	if err != nil {
		return domain.CampRegistration{}, err
	}

	camp, err := s.repo.FindByID(ctx, s.db, campID)
	if err != nil {
		return domain.CampRegistration{}, err
	}
	if camp == nil {
		return domain.CampRegistration{}, domain.ErrCampNotFound
	}

	now := time.Now().UTC()
	registration := domain.CampRegistration{
		ID:        s.genID.Generate(),
		UserID:    userID,
		CampID:    campID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registrationRepo.Insert(ctx, s.db, &registration); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.CampRegistration{}, domain.ErrDuplicateRegistration
		}
		return domain.CampRegistration{}, err
	}
	return registration, nil
}

func (s *Service) ListRegistrations(ctx context.Context) ([]domain.CampRegistration, error) {
	return s.registrationRepo.List(ctx, s.db)
}

func (s *Service) ListRegistrationsByUser(ctx context.Context, userID string) ([]domain.CampRegistration, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	return s.registrationRepo.ListByUser(ctx, s.db, userID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
