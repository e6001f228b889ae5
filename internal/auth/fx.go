package auth

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/auth/repository"
	"github.com/khasm-app/khasm/internal/auth/service"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
