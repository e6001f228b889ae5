package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/auth/password"
	"github.com/khasm-app/khasm/internal/user/domain"
	"github.com/khasm-app/khasm/pkg/db"
	"github.com/khasm-app/khasm/pkg/db/pagination"
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
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (domain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.User{}, domain.ErrInvalidArgument
	}

	mobile := strings.TrimSpace(req.MobileNumber)
	if mobile == "" {
		return domain.User{}, domain.ErrInvalidArgument
	}

	idNumber := strings.TrimSpace(req.IDNumber)

	// The initial password defaults to the national id number, falling
	// back to the mobile number.
	secret := idNumber
	if secret == "" {
		secret = mobile
	}
	hashed, err := password.Hash(secret)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		MobileNumber: &mobile,
		PasswordHash: hashed,
		Role:         domain.RoleCustomer,
		IsActive:     true,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if idNumber != "" {
		user.IDNumber = &idNumber
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrMobileExists
		}
		return domain.User{}, err
	}

	s.log.Info("customer created",
		zap.String("user_id", user.ID.String()),
	)

	return user, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUserRequest) (domain.ListUserResponse, error) {
	filter := domain.ListUserFilter{
		Name:   strings.TrimSpace(req.Name),
		Mobile: strings.TrimSpace(req.Mobile),
		Role:   strings.TrimSpace(req.Role),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListUserResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int(pageSize), func(user *domain.User) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        user.ID.String(),
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		users = append(users, *item)
	}

	resp := domain.ListUserResponse{Users: users}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetUserRequest) (domain.User, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.User{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}

	return *item, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, req domain.UpdateCustomerRequest) (domain.User, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.User{}, err
	}

	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.User{}, domain.ErrInvalidArgument
		}
		fields["name"] = name
	}
	if req.MobileNumber != nil {
		mobile := strings.TrimSpace(*req.MobileNumber)
		if mobile == "" {
			return domain.User{}, domain.ErrInvalidArgument
		}
		fields["mobile_number"] = mobile
	}
	if req.IDNumber != nil {
		fields["id_number"] = strings.TrimSpace(*req.IDNumber)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if err := s.repo.UpdateFields(ctx, s.db, id, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrMobileExists
		}
		return domain.User{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetUserRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByIdentifier(ctx, s.db, strings.ToLower(identifier))
}

func (s *Service) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	parsed, err := s.parseID(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return domain.ErrInvalidArgument
	}
	return s.repo.UpdateFields(ctx, s.db, parsed, map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
}

func (s *Service) EnsureAdmin(ctx context.Context, req domain.EnsureAdminRequest) error {
	count, err := s.repo.Count(ctx, s.db, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return domain.ErrInvalidArgument
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        &email,
		PasswordHash: hashed,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &admin); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	s.log.Info("bootstrap admin created",
		zap.String("user_id", admin.ID.String()),
		zap.String("email", email),
	)
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidArgument
	}
	return id, nil
}
