package issuance

import (
	"github.com/lifedrop/lifedrop/internal/issuance/repository"
	"github.com/lifedrop/lifedrop/internal/issuance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("issuance.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
