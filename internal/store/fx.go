package store

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/store/repository"
	"github.com/khasm-app/khasm/internal/store/service"
)

var Module = fx.Module("store.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
