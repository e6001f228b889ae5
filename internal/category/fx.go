package category

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/category/repository"
	"github.com/khasm-app/khasm/internal/category/service"
)

var Module = fx.Module("category.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
