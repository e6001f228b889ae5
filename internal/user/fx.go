package user

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/user/repository"
	"github.com/khasm-app/khasm/internal/user/service"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
