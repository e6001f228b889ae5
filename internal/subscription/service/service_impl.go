package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/clock"
	"github.com/khasm-app/khasm/internal/subscription/domain"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

// subscriptionTermMonths is the card validity period sold to customers.
const subscriptionTermMonths = 2

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Users userdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	users userdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		users: p.Users,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	user, err := s.users.GetByID(ctx, userdomain.GetUserRequest{ID: req.UserID})
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) || errors.Is(err, userdomain.ErrInvalidArgument) {
			return domain.Subscription{}, domain.ErrInvalidUser
		}
		return domain.Subscription{}, err
	}

	now := s.clock.Now()
	subscription := domain.Subscription{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		StartDate: now,
		ExpiresAt: now.AddDate(0, subscriptionTermMonths, 0),
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &subscription); err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", subscription.ExpiresAt),
	)

	return subscription, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Subscription, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetSubscriptionRequest) (domain.Subscription, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	return *item, nil
}

func (s *Service) CurrentByUser(ctx context.Context, userID string) (domain.Subscription, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		return domain.Subscription{}, domain.ErrInvalidUser
	}

	item, err := s.repo.FindLatestByUser(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	return *item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Subscription, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	status := strings.TrimSpace(req.Status)
	switch status {
	case domain.StatusActive, domain.StatusExpired, domain.StatusCancelled:
	default:
		return domain.Subscription{}, domain.ErrInvalidStatus
	}

	if err := s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"status":     status,
		"updated_at": s.clock.Now(),
	}); err != nil {
		return domain.Subscription{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
