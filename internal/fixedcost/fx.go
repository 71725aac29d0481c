package fixedcost

import (
	"github.com/InteliJR/pricehub/internal/fixedcost/repository"
	"github.com/InteliJR/pricehub/internal/fixedcost/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fixedcost.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
