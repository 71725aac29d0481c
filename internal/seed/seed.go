package seed

import (
	"context"
	"errors"

	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	pricingdomain "github.com/InteliJR/pricehub/internal/pricing/domain"
	productdomain "github.com/InteliJR/pricehub/internal/product/domain"
	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedActor = "seed"

	demoProductCode   = "1001"
	demoFixedCostCode = "CF-PADRAO"
	demoGroupName     = "Embalagens PET"
	resinCode         = "MP-001"
	pigmentCode       = "MP-002"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Products     productdomain.Service
	ProductRepo  productdomain.Repository
	RawMaterials rawmaterialdomain.Service
	MaterialRepo rawmaterialdomain.Repository
	FixedCosts   fixedcostdomain.Service
	FixedRepo    fixedcostdomain.Repository
	Freights     freightdomain.Service
	Groups       productgroupdomain.Service
	GroupRepo    productgroupdomain.Repository
}

// EnsureDemoData creates a freight, two raw materials, a fixed cost, a product
// group and a priced product. It does nothing when the demo product already exists.
func EnsureDemoData(ctx context.Context, p Params) error {
	if p.DB == nil {
		return errors.New("seed database handle is required")
	}
	log := p.Log.Named("seed")
	ctx = obsctx.WithActor(ctx, seedActor, "admin")

	existing, err := p.ProductRepo.FindByCode(ctx, p.DB, demoProductCode)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info("demo data already present", zap.String("product_code", demoProductCode))
		return nil
	}

	resinID, err := ensureResin(ctx, p)
	if err != nil {
		return err
	}
	pigmentID, err := ensurePigment(ctx, p)
	if err != nil {
		return err
	}
	fixedCostID, err := ensureFixedCost(ctx, p)
	if err != nil {
		return err
	}
	groupID, err := ensureGroup(ctx, p)
	if err != nil {
		return err
	}

	product, err := p.Products.Create(ctx, productdomain.CreateRequest{
		Code:           demoProductCode,
		Name:           "Garrafa PET azul 500ml",
		FixedCostID:    &fixedCostID,
		ProductGroupID: &groupID,
		RawMaterials: []pricingdomain.RawMaterialInput{
			{RawMaterialID: resinID, Quantity: decimal.RequireFromString("5")},
			{RawMaterialID: pigmentID, Quantity: decimal.RequireFromString("0.2")},
		},
	})
	if err != nil {
		return err
	}

	log.Info("demo data created",
		zap.String("product_id", product.ID),
		zap.String("price_with_taxes_and_freight", product.PriceWithTaxesAndFreight.StringFixed(2)),
	)
	return nil
}

func ensureResin(ctx context.Context, p Params) (string, error) {
	material, err := p.MaterialRepo.FindByCode(ctx, p.DB, resinCode)
	if err != nil {
		return "", err
	}
	if material != nil {
		return idString(material.ID), nil
	}

	description := "Carga seca paletizada"
	freight, err := p.Freights.Create(ctx, freightdomain.CreateRequest{
		Name:            "Campinas - São Paulo",
		Description:     &description,
		UnitPrice:       decimal.RequireFromString("150"),
		Currency:        "BRL",
		OriginUF:        "SP",
		OriginCity:      "Campinas",
		DestinationUF:   "SP",
		DestinationCity: "São Paulo",
		CargoType:       "Granel",
		OperationType:   "INTERNAL",
		FreightTaxes: []freightdomain.TaxRequest{
			{Name: "ICMS", Rate: decimal.RequireFromString("12")},
		},
	})
	if err != nil {
		return "", err
	}

	converted := decimal.RequireFromString("8.50")
	resin, err := p.RawMaterials.Create(ctx, rawmaterialdomain.CreateRequest{
		Code:              resinCode,
		Name:              "Resina PET",
		MeasurementUnit:   "KG",
		PaymentTerm:       30,
		AcquisitionPrice:  decimal.RequireFromString("1.70"),
		Currency:          "USD",
		PriceConvertedBRL: &converted,
		AdditionalCost:    decimal.RequireFromString("0.50"),
		FreightID:         &freight.ID,
		TaxItems: []rawmaterialdomain.TaxItemRequest{
			{Name: "PIS", Rate: decimal.RequireFromString("1.65")},
			{Name: "COFINS", Rate: decimal.RequireFromString("7.6")},
		},
	})
	if err != nil {
		return "", err
	}
	return resin.ID, nil
}

func ensurePigment(ctx context.Context, p Params) (string, error) {
	material, err := p.MaterialRepo.FindByCode(ctx, p.DB, pigmentCode)
	if err != nil {
		return "", err
	}
	if material != nil {
		return idString(material.ID), nil
	}

	pigment, err := p.RawMaterials.Create(ctx, rawmaterialdomain.CreateRequest{
		Code:             pigmentCode,
		Name:             "Pigmento azul",
		MeasurementUnit:  "KG",
		AcquisitionPrice: decimal.RequireFromString("10"),
		Currency:         "BRL",
	})
	if err != nil {
		return "", err
	}
	return pigment.ID, nil
}

func ensureFixedCost(ctx context.Context, p Params) (string, error) {
	fixedCost, err := p.FixedRepo.FindByCode(ctx, p.DB, demoFixedCostCode)
	if err != nil {
		return "", err
	}
	if fixedCost != nil {
		return idString(fixedCost.ID), nil
	}

	code := demoFixedCostCode
	created, err := p.FixedCosts.Create(ctx, fixedcostdomain.CreateRequest{
		Code:              &code,
		Description:       "Custos fixos da fábrica",
		PersonnelExpenses: decimal.RequireFromString("5000"),
		GeneralExpenses:   decimal.RequireFromString("2000"),
		ProLabore:         decimal.RequireFromString("1000"),
		SalesVolume:       decimal.RequireFromString("1000"),
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func ensureGroup(ctx context.Context, p Params) (string, error) {
	group, err := p.GroupRepo.FindByName(ctx, p.DB, demoGroupName)
	if err != nil {
		return "", err
	}
	if group != nil {
		return idString(group.ID), nil
	}

	description := "Garrafas e frascos sopradas em PET"
	created, err := p.Groups.Create(ctx, productgroupdomain.CreateRequest{
		Name:        demoGroupName,
		Description: &description,
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func idString(id int64) string {
	return snowflake.ID(id).String()
}
