package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lifedrop/lifedrop/internal/bloodrequest"
	"github.com/lifedrop/lifedrop/internal/camp"
	"github.com/lifedrop/lifedrop/internal/config"
	"github.com/lifedrop/lifedrop/internal/events"
	"github.com/lifedrop/lifedrop/internal/inventory"
	"github.com/lifedrop/lifedrop/internal/issuance"
	"github.com/lifedrop/lifedrop/internal/migration"
	"github.com/lifedrop/lifedrop/internal/notification"
	"github.com/lifedrop/lifedrop/internal/observability"
	"github.com/lifedrop/lifedrop/internal/server"
	"github.com/lifedrop/lifedrop/pkg/db"
	"github.com/lifedrop/lifedrop/pkg/redis"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		redis.Module,
		migration.Module,
		events.Module,

		// Functional domains
		inventory.Module,
		issuance.Module,
		bloodrequest.Module,
		notification.Module,
		camp.Module,

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
