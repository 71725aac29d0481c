package rawmaterial

import (
	"github.com/InteliJR/pricehub/internal/rawmaterial/repository"
	"github.com/InteliJR/pricehub/internal/rawmaterial/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rawmaterial.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
