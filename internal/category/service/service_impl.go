package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/category/domain"
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
		log:   p.Log.Named("category.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Category{}, domain.ErrInvalidName
	}
	letter, err := normalizeLetter(req.Letter)
	if err != nil {
		return domain.Category{}, err
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:        s.genID.Generate(),
		Name:      name,
		Letter:    letter,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Category{}, domain.ErrNameExists
		}
		return domain.Category{}, err
	}

	return category, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCategoryRequest) (domain.Category, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Category{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Category{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCategoryRequest) (domain.Category, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Category{}, err
	}

	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Category{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Letter != nil {
		letter, err := normalizeLetter(*req.Letter)
		if err != nil {
			return domain.Category{}, err
		}
		fields["letter"] = letter
	}

	if err := s.repo.UpdateFields(ctx, s.db, id, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Category{}, domain.ErrNameExists
		}
		return domain.Category{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Category{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetCategoryRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

// normalizeLetter accepts a single character badge, Arabic letters included.
func normalizeLetter(raw string) (string, error) {
	letter := strings.TrimSpace(raw)
	if letter == "" || utf8.RuneCountInString(letter) != 1 {
		return "", domain.ErrInvalidLetter
	}
	return letter, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
