package subscription

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/subscription/repository"
	"github.com/khasm-app/khasm/internal/subscription/service"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
