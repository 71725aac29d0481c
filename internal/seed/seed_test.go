package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/InteliJR/pricehub/internal/clock"
	"github.com/InteliJR/pricehub/internal/config"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	fixedcostrepo "github.com/InteliJR/pricehub/internal/fixedcost/repository"
	fixedcostservice "github.com/InteliJR/pricehub/internal/fixedcost/service"
	freightrepo "github.com/InteliJR/pricehub/internal/freight/repository"
	freightservice "github.com/InteliJR/pricehub/internal/freight/service"
	"github.com/InteliJR/pricehub/internal/migration"
	pricingservice "github.com/InteliJR/pricehub/internal/pricing/service"
	"github.com/InteliJR/pricehub/internal/pricing/store"
	productdomain "github.com/InteliJR/pricehub/internal/product/domain"
	productrepo "github.com/InteliJR/pricehub/internal/product/repository"
	productservice "github.com/InteliJR/pricehub/internal/product/service"
	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	productgrouprepo "github.com/InteliJR/pricehub/internal/productgroup/repository"
	productgroupservice "github.com/InteliJR/pricehub/internal/productgroup/service"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	rawmaterialrepo "github.com/InteliJR/pricehub/internal/rawmaterial/repository"
	rawmaterialservice "github.com/InteliJR/pricehub/internal/rawmaterial/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupParams(t *testing.T) Params {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	productRepo := productrepo.Provide()
	materialRepo := rawmaterialrepo.Provide()
	fixedRepo := fixedcostrepo.Provide()
	groupRepo := productgrouprepo.Provide()

	storeParams := store.Params{DB: conn, RawMaterials: materialRepo, FixedCosts: fixedRepo}
	calc := pricingservice.New(pricingservice.Params{
		Log:          log,
		RawMaterials: store.NewRawMaterialStore(storeParams),
		FixedCosts:   store.NewFixedCostStore(storeParams),
	})

	return Params{
		DB:          conn,
		Log:         log,
		ProductRepo: productRepo,
		Products: productservice.New(productservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: productRepo, Calculator: calc,
		}),
		MaterialRepo: materialRepo,
		RawMaterials: rawmaterialservice.New(rawmaterialservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: materialRepo,
			Rates: config.NewStaticExchangeRateHolder(nil),
		}),
		FixedRepo: fixedRepo,
		FixedCosts: fixedcostservice.New(fixedcostservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: fixedRepo,
		}),
		Freights: freightservice.New(freightservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: freightrepo.Provide(),
		}),
		GroupRepo: groupRepo,
		Groups: productgroupservice.New(productgroupservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: groupRepo,
		}),
	}
}

func TestEnsureDemoDataCreatesPricedProduct(t *testing.T) {
	p := setupParams(t)
	ctx := context.Background()

	require.NoError(t, EnsureDemoData(ctx, p))

	found, err := p.ProductRepo.FindByCode(ctx, p.DB, demoProductCode)
	require.NoError(t, err)
	require.NotNil(t, found)
	product, err := p.ProductRepo.FindByID(ctx, p.DB, found.ID)
	require.NoError(t, err)
	require.Len(t, product.RawMaterials, 2)
	require.NotNil(t, product.FixedCostID)
	require.NotNil(t, product.ProductGroupID)
	require.NotNil(t, product.CreatedBy)
	assert.Equal(t, seedActor, *product.CreatedBy)
	assert.True(t, product.PriceWithTaxesAndFreight.GreaterThan(decimal.RequireFromString("888.93")))

	fixedCost, err := p.FixedRepo.FindByCode(ctx, p.DB, demoFixedCostCode)
	require.NoError(t, err)
	require.NotNil(t, fixedCost)
	assert.Equal(t, "8", fixedCost.OverheadPerUnit.String())
}

func TestEnsureDemoDataIsIdempotent(t *testing.T) {
	p := setupParams(t)
	ctx := context.Background()

	require.NoError(t, EnsureDemoData(ctx, p))
	require.NoError(t, EnsureDemoData(ctx, p))

	var products, materials, fixedCosts, groups int64
	require.NoError(t, p.DB.Model(&productdomain.Product{}).Count(&products).Error)
	require.NoError(t, p.DB.Model(&rawmaterialdomain.RawMaterial{}).Count(&materials).Error)
	require.NoError(t, p.DB.Model(&fixedcostdomain.FixedCost{}).Count(&fixedCosts).Error)
	require.NoError(t, p.DB.Model(&productgroupdomain.ProductGroup{}).Count(&groups).Error)
	assert.Equal(t, int64(1), products)
	assert.Equal(t, int64(2), materials)
	assert.Equal(t, int64(1), fixedCosts)
	assert.Equal(t, int64(1), groups)
}
