package ledger

import (
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/ledger/repository"
	"github.com/khasm-app/khasm/internal/ledger/service"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
