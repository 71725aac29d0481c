package pricing

import (
	"github.com/InteliJR/pricehub/internal/pricing/service"
	"github.com/InteliJR/pricehub/internal/pricing/store"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(store.NewRawMaterialStore),
	fx.Provide(store.NewFixedCostStore),
	fx.Provide(service.New),
)
