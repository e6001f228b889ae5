// Package scheduler runs periodic maintenance jobs, currently the
// subscription expiry sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/khasm-app/khasm/internal/audit/domain"
	"github.com/khasm-app/khasm/internal/clock"
	subscriptiondomain "github.com/khasm-app/khasm/internal/subscription/domain"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	AuditSvc auditdomain.Service
	Config   Config `optional:"true"`
}

type Scheduler struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      Config
	clock    clock.Clock
	auditSvc auditdomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.AuditSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:       p.DB,
		log:      p.Log.Named("scheduler"),
		cfg:      p.Config.withDefaults(),
		clock:    p.Clock,
		auditSvc: p.AuditSvc,
	}, nil
}

// RunForever sweeps on the configured interval until ctx is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, "subscription_expiry", s.ExpireSubscriptions)
		}
	}
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	err := fn(ctx)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.log.Warn("job timed out",
				zap.String("job", name),
				zap.Duration("elapsed", elapsed),
			)
			return
		}
		s.log.Error("job failed",
			zap.String("job", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}

	s.log.Debug("job finished",
		zap.String("job", name),
		zap.Duration("elapsed", elapsed),
	)
}

// ExpireSubscriptions marks active subscriptions past their expiry as
// expired, in batches. The sweep is idempotent: a row already expired is
// never touched again.
func (s *Scheduler) ExpireSubscriptions(ctx context.Context) error {
	now := s.clock.Now()
	total := 0

	for {
		ids, err := s.claimExpired(ctx, now, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("scheduler: claim expired subscriptions: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		result := s.db.WithContext(ctx).
			Model(&subscriptiondomain.Subscription{}).
			Where("id IN ? AND status = ?", ids, subscriptiondomain.StatusActive).
			Updates(map[string]any{
				"status":     subscriptiondomain.StatusExpired,
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("scheduler: expire subscriptions: %w", result.Error)
		}
		total += int(result.RowsAffected)

		if len(ids) < s.cfg.BatchSize {
			break
		}
	}

	if total == 0 {
		return nil
	}

	s.log.Info("expired subscriptions swept", zap.Int("count", total))
	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		ActorType:  auditdomain.ActorTypeSystem,
		ActorID:    "scheduler",
		Action:     "subscription.expire_sweep",
		TargetType: "subscription",
		Metadata:   map[string]any{"count": total},
	}); err != nil {
		s.log.Warn("sweep audit failed", zap.Error(err))
	}
	return nil
}

func (s *Scheduler) claimExpired(ctx context.Context, now time.Time, limit int) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := s.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("status = ? AND expires_at <= ?", subscriptiondomain.StatusActive, now).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
