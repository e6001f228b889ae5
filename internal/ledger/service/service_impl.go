package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/clock"
	"github.com/khasm-app/khasm/internal/config"
	"github.com/khasm-app/khasm/internal/ledger/domain"
	"github.com/khasm-app/khasm/internal/observability/metrics"
	storedomain "github.com/khasm-app/khasm/internal/store/domain"
	"github.com/khasm-app/khasm/pkg/db"
)

type Params struct {
	fx.In

	Config  config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Stores  storedomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	stores  storedomain.Service
	metrics *metrics.Metrics
	loc     *time.Location
}

func New(p Params) domain.Service {
	log := p.Log.Named("ledger.service")

	loc, err := time.LoadLocation(p.Config.LedgerTimezone)
	if err != nil {
		log.Warn("unknown ledger timezone, falling back to UTC",
			zap.String("timezone", p.Config.LedgerTimezone),
		)
		loc = time.UTC
	}

	return &Service{
		db:      p.DB,
		log:     log,
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		stores:  p.Stores,
		metrics: p.Metrics,
		loc:     loc,
	}
}

func (s *Service) CheckAllowance(ctx context.Context, req domain.CheckAllowanceRequest) (domain.Allowance, error) {
	// The subscription id is validated but takes no part in the lookup:
	// allowance is decided by user+store+day alone.
	userID, _, storeID, err := parseIDs(req.UserID, req.SubscriptionID, req.StoreID)
	if err != nil {
		return domain.Allowance{}, err
	}

	today := domain.DayKey(s.clock.Now(), s.loc)
	existing, err := s.repo.FindOne(ctx, s.db, userID, storeID, today)
	if err != nil {
		return domain.Allowance{}, err
	}

	s.metrics.RecordAllowanceCheck(ctx, existing == nil)

	if existing == nil {
		return domain.Allowance{Allowed: true}, nil
	}

	next := domain.NextAvailableAt(existing.UsedAt)
	return domain.Allowance{
		Allowed:         false,
		UsedAt:          &existing.UsedAt,
		NextAvailableAt: &next,
	}, nil
}

func (s *Service) RecordUsage(ctx context.Context, req domain.RecordUsageRequest) (domain.RedeemResult, error) {
	userID, subscriptionID, storeID, err := parseIDs(req.UserID, req.SubscriptionID, req.StoreID)
	if err != nil {
		return domain.RedeemResult{}, err
	}

	store, err := s.stores.GetByID(ctx, storedomain.GetStoreRequest{ID: req.StoreID})
	if err != nil {
		if errors.Is(err, storedomain.ErrNotFound) || errors.Is(err, storedomain.ErrInvalidID) {
			return domain.RedeemResult{}, domain.ErrInvalidStore
		}
		return domain.RedeemResult{}, err
	}
	if !store.IsActive {
		return domain.RedeemResult{}, domain.ErrStoreInactive
	}

	now := s.clock.Now()
	today := domain.DayKey(now, s.loc)

	// Advisory pre-check. The unique index below is what actually
	// guarantees once per day.
	existing, err := s.repo.FindOne(ctx, s.db, userID, storeID, today)
	if err != nil {
		return domain.RedeemResult{}, err
	}
	if existing != nil {
		s.metrics.RecordRedemptionDenied(ctx, req.StoreID, "already_used")
		return domain.RedeemResult{Success: false, AlreadyUsed: true}, nil
	}

	record := domain.UsageRecord{
		ID:             s.genID.Generate(),
		UserID:         userID,
		SubscriptionID: subscriptionID,
		StoreID:        storeID,
		UsedAt:         now,
		UsageDate:      today,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			s.metrics.RecordRedemptionDenied(ctx, req.StoreID, "already_used")
			return domain.RedeemResult{Success: false, AlreadyUsed: true}, nil
		}
		return domain.RedeemResult{}, err
	}

	s.metrics.RecordRedemption(ctx, req.StoreID)
	s.log.Info("usage recorded",
		zap.String("user_id", userID.String()),
		zap.String("store_id", storeID.String()),
		zap.String("usage_date", today),
	)

	return domain.RedeemResult{Success: true, Record: &record}, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]domain.UsageRecord, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListByUser(ctx, s.db, id, limit)
}

func parseIDs(user, subscription, store string) (snowflake.ID, snowflake.ID, snowflake.ID, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(user))
	if err != nil || userID == 0 {
		return 0, 0, 0, domain.ErrInvalidUser
	}
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(subscription))
	if err != nil || subscriptionID == 0 {
		return 0, 0, 0, domain.ErrInvalidSubscription
	}
	storeID, err := snowflake.ParseString(strings.TrimSpace(store))
	if err != nil || storeID == 0 {
		return 0, 0, 0, domain.ErrInvalidStore
	}
	return userID, subscriptionID, storeID, nil
}
