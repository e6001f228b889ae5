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

	"github.com/khasm-app/khasm/internal/favorite/domain"
	storedomain "github.com/khasm-app/khasm/internal/store/domain"
	"github.com/khasm-app/khasm/pkg/db"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Stores storedomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	stores storedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("favorite.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		stores: p.Stores,
	}
}

func (s *Service) Toggle(ctx context.Context, req domain.ToggleRequest) (domain.ToggleResult, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		return domain.ToggleResult{}, domain.ErrInvalidUser
	}

	store, err := s.stores.GetByID(ctx, storedomain.GetStoreRequest{ID: req.StoreID})
	if err != nil {
		if errors.Is(err, storedomain.ErrNotFound) || errors.Is(err, storedomain.ErrInvalidID) {
			return domain.ToggleResult{}, domain.ErrInvalidStore
		}
		return domain.ToggleResult{}, err
	}

	if _, err := s.repo.Find(ctx, s.db, userID, store.ID); err == nil {
		if err := s.repo.Delete(ctx, s.db, userID, store.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.ToggleResult{}, err
		}
		return domain.ToggleResult{Favorited: false}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.ToggleResult{}, err
	}

	favorite := domain.Favorite{
		ID:        s.genID.Generate(),
		UserID:    userID,
		StoreID:   store.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &favorite); err != nil {
		// A concurrent toggle already added it.
		if db.IsDuplicateKeyErr(err) {
			return domain.ToggleResult{Favorited: true}, nil
		}
		return domain.ToggleResult{}, err
	}

	return domain.ToggleResult{Favorited: true}, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListByUser(ctx, s.db, id)
}
