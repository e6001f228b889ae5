package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidActor = errors.New("invalid actor")
)

// Objects guarded by the policy layer.
const (
	ObjectPlace        = "place"
	ObjectCategory     = "category"
	ObjectStore        = "store"
	ObjectCustomer     = "customer"
	ObjectSubscription = "subscription"
	ObjectCard         = "card"
	ObjectAudit        = "audit"
)

// Actions on objects.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionRedeem = "redeem"
)

// Roles carried on user accounts.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var Module = fx.Module("authorization",
	fx.Provide(
		NewEnforcer,
		New,
	),
)

type Service interface {
	// Authorize returns ErrForbidden when the role is not allowed to
	// perform action on object.
	Authorize(ctx context.Context, role, object, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type service struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func New(p Params) Service {
	return &service{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

// NewEnforcer builds a casbin enforcer backed by the application database
// and seeds the built-in role policies.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("authorization: create adapter: %w", err)
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authorization: parse model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authorization: create enforcer: %w", err)
	}

	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authorization: load policy: %w", err)
	}

	if err := seedPolicies(enforcer); err != nil {
		return nil, fmt.Errorf("authorization: seed policies: %w", err)
	}

	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, fmt.Errorf("authorization: build role links: %w", err)
	}

	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	adminObjects := []string{
		ObjectPlace,
		ObjectCategory,
		ObjectStore,
		ObjectCustomer,
		ObjectSubscription,
	}
	adminActions := []string{ActionView, ActionCreate, ActionUpdate, ActionDelete}

	for _, obj := range adminObjects {
		for _, act := range adminActions {
			if _, err := enforcer.AddPolicy(subjectForRole(RoleAdmin), obj, act); err != nil {
				return err
			}
		}
	}

	customerPolicies := [][]string{
		{subjectForRole(RoleCustomer), ObjectCard, ActionView},
		{subjectForRole(RoleCustomer), ObjectCard, ActionRedeem},
		{subjectForRole(RoleAdmin), ObjectCard, ActionView},
		{subjectForRole(RoleAdmin), ObjectCard, ActionRedeem},
		{subjectForRole(RoleAdmin), ObjectAudit, ActionView},
	}
	for _, p := range customerPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	return nil
}

func subjectForRole(role string) string {
	return "role:" + role
}

func (s *service) Authorize(ctx context.Context, role, object, action string) error {
	if role == "" {
		return ErrInvalidActor
	}

	allowed, err := s.enforcer.Enforce(subjectForRole(role), object, action)
	if err != nil {
		return fmt.Errorf("authorization: enforce: %w", err)
	}
	if !allowed {
		s.log.Debug("access denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}

	return nil
}
