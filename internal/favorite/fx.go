package favorite

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/favorite/repository"
	"github.com/khasm-app/khasm/internal/favorite/service"
)

var Module = fx.Module("favorite.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
