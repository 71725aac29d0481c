package freight

import (
	"github.com/InteliJR/pricehub/internal/freight/repository"
	"github.com/InteliJR/pricehub/internal/freight/service"
	"go.uber.org/fx"
)

var Module = fx.Module("freight.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
