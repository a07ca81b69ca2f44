package inventory

import (
	"github.com/lifedrop/lifedrop/internal/inventory/cache"
	"github.com/lifedrop/lifedrop/internal/inventory/repository"
	"github.com/lifedrop/lifedrop/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(cache.NewStockCache),
	fx.Provide(service.New),
)
