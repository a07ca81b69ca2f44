package bloodrequest

import (
	"github.com/lifedrop/lifedrop/internal/bloodrequest/repository"
	"github.com/lifedrop/lifedrop/internal/bloodrequest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bloodrequest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
