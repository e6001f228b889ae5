package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/place/domain"
	"github.com/khasm-app/khasm/pkg/db"
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
		log:   p.Log.Named("place.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlaceRequest) (domain.Place, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Place{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	place := domain.Place{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &place); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Place{}, domain.ErrNameExists
		}
		return domain.Place{}, err
	}

	return place, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Place, error) {
	return s.repo.List(ctx, s.db, activeOnly)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPlaceRequest) (domain.Place, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Place{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Place{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePlaceRequest) (domain.Place, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Place{}, err
	}

	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Place{}, domain.ErrInvalidName
		}
		fields["name"] = name
		fields["slug"] = slug.Make(name)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if err := s.repo.UpdateFields(ctx, s.db, id, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Place{}, domain.ErrNameExists
		}
		return domain.Place{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Place{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetPlaceRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
