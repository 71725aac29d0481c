package productgroup

import (
	"github.com/InteliJR/pricehub/internal/productgroup/repository"
	"github.com/InteliJR/pricehub/internal/productgroup/service"
	"go.uber.org/fx"
)

var Module = fx.Module("productgroup.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
