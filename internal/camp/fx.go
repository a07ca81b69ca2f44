package camp

import (
	"github.com/lifedrop/lifedrop/internal/camp/repository"
	"github.com/lifedrop/lifedrop/internal/camp/service"
	"go.uber.org/fx"
)

var Module = fx.Module("camp.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideRegistrations),
	fx.Provide(service.New),
)
