package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Notification, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.Notification{}, domain.ErrMissingUser
	}
	notificationType := strings.TrimSpace(req.Type)
	message := strings.TrimSpace(req.Message)
	if notificationType == "" || message == "" {
		return domain.Notification{}, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	notification := domain.Notification{
		ID:             s.genID.Generate(),
		UserID:         userID,
		Type:           notificationType,
		Message:        message,
		RelatedRequest: strings.TrimSpace(req.RelatedRequest),
		Status:         domain.StatusUnread,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &notification); err != nil {
		return domain.Notification{}, err
	}
	return notification, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	notificationID, err := s.parseID(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.MarkRead(ctx, s.db, notificationID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	notificationID, err := s.parseID(id)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, notificationID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
