package product

import (
	"github.com/InteliJR/pricehub/internal/product/repository"
	"github.com/InteliJR/pricehub/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
