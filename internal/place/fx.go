package place

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/place/repository"
	"github.com/khasm-app/khasm/internal/place/service"
)

var Module = fx.Module("place.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
