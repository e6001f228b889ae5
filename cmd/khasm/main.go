package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/khasm-app/khasm/internal/clock"
	"github.com/khasm-app/khasm/internal/config"
	"github.com/khasm-app/khasm/internal/migration"
	"github.com/khasm-app/khasm/internal/observability"
	"github.com/khasm-app/khasm/internal/scheduler"
	"github.com/khasm-app/khasm/internal/seed"
	"github.com/khasm-app/khasm/internal/server"
	"github.com/khasm-app/khasm/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		migration.Module,
		seed.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
