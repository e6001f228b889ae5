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

	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
	"github.com/khasm-app/khasm/internal/store/domain"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Places     placedomain.Service
	Categories categorydomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	places     placedomain.Service
	categories categorydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("store.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		places:     p.Places,
		categories: p.Categories,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateStoreRequest) (domain.Store, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Store{}, domain.ErrInvalidName
	}
	if req.Discount < 0 || req.Discount > 100 {
		return domain.Store{}, domain.ErrInvalidDiscount
	}

	placeID, err := s.resolvePlace(ctx, req.PlaceID)
	if err != nil {
		return domain.Store{}, err
	}
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return domain.Store{}, err
	}

	now := time.Now().UTC()
	store := domain.Store{
		ID:         s.genID.Generate(),
		Name:       name,
		PlaceID:    placeID,
		CategoryID: categoryID,
		Discount:   req.Discount,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &store); err != nil {
		return domain.Store{}, err
	}

	return store, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListStoreFilter) ([]domain.Store, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetStoreRequest) (domain.Store, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Store{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Store{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateStoreRequest) (domain.Store, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Store{}, err
	}

	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Store{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.PlaceID != nil {
		placeID, err := s.resolvePlace(ctx, *req.PlaceID)
		if err != nil {
			return domain.Store{}, err
		}
		fields["place_id"] = placeID
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, *req.CategoryID)
		if err != nil {
			return domain.Store{}, err
		}
		fields["category_id"] = categoryID
	}
	if req.Discount != nil {
		if *req.Discount < 0 || *req.Discount > 100 {
			return domain.Store{}, domain.ErrInvalidDiscount
		}
		fields["discount"] = *req.Discount
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if err := s.repo.UpdateFields(ctx, s.db, id, fields); err != nil {
		return domain.Store{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Store{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetStoreRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GroupedByPlace(ctx context.Context) ([]domain.PlaceGroup, error) {
	stores, err := s.repo.List(ctx, s.db, domain.ListStoreFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	groupIndex := make(map[snowflake.ID]int)
	groups := make([]domain.PlaceGroup, 0)
	for _, store := range stores {
		if store.Place == nil || store.Category == nil {
			continue
		}

		idx, ok := groupIndex[store.PlaceID]
		if !ok {
			groups = append(groups, domain.PlaceGroup{Place: *store.Place})
			idx = len(groups) - 1
			groupIndex[store.PlaceID] = idx
		}

		groups[idx].Stores = append(groups[idx].Stores, domain.StoreSummary{
			ID:       store.ID,
			Name:     store.Name,
			Discount: store.Discount,
			Category: *store.Category,
		})
	}

	return groups, nil
}

func (s *Service) resolvePlace(ctx context.Context, raw string) (snowflake.ID, error) {
	place, err := s.places.GetByID(ctx, placedomain.GetPlaceRequest{ID: raw})
	if err != nil {
		if errors.Is(err, placedomain.ErrNotFound) || errors.Is(err, placedomain.ErrInvalidID) {
			return 0, domain.ErrInvalidPlace
		}
		return 0, err
	}
	return place.ID, nil
}

func (s *Service) resolveCategory(ctx context.Context, raw string) (snowflake.ID, error) {
	category, err := s.categories.GetByID(ctx, categorydomain.GetCategoryRequest{ID: raw})
	if err != nil {
		if errors.Is(err, categorydomain.ErrNotFound) || errors.Is(err, categorydomain.ErrInvalidID) {
			return 0, domain.ErrInvalidCategory
		}
		return 0, err
	}
	return category.ID, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
