// Package seed bootstraps the initial admin account so a fresh install is
// immediately operable.
package seed

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/khasm-app/khasm/internal/config"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

var Module = fx.Module("seed",
	fx.Invoke(EnsureBootstrapAdmin),
)

func EnsureBootstrapAdmin(cfg config.Config, log *zap.Logger, users userdomain.Service) error {
	err := users.EnsureAdmin(context.Background(), userdomain.EnsureAdminRequest{
		Name:     cfg.BootstrapAdminName,
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
	})
	if err != nil {
		log.Named("seed").Error("ensure bootstrap admin", zap.Error(err))
		return err
	}
	return nil
}
