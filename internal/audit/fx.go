package audit

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/audit/repository"
	"github.com/khasm-app/khasm/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
