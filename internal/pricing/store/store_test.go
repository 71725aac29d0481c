package store

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	fixedcostrepo "github.com/InteliJR/pricehub/internal/fixedcost/repository"
	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	"github.com/InteliJR/pricehub/internal/pricing/domain"
	pricingservice "github.com/InteliJR/pricehub/internal/pricing/service"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	rawmaterialrepo "github.com/InteliJR/pricehub/internal/rawmaterial/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	resinID     int64 = 1001
	pigmentID   int64 = 1002
	freightID   int64 = 3001
	fixedCostID int64 = 2001
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&freightdomain.Freight{},
		&freightdomain.FreightTax{},
		&rawmaterialdomain.RawMaterial{},
		&rawmaterialdomain.TaxItem{},
		&fixedcostdomain.FixedCost{},
	))

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&freightdomain.Freight{
		ID:              freightID,
		Name:            "Frete Campinas",
		UnitPrice:       dec("150"),
		Currency:        "BRL",
		OriginUF:        "SP",
		OriginCity:      "Campinas",
		DestinationUF:   "SP",
		DestinationCity: "São Paulo",
		CargoType:       "Granel",
		OperationType:   "INTERNAL",
		CreatedAt:       now,
		UpdatedAt:       now,
		Taxes:           []freightdomain.FreightTax{{ID: 1, Name: "ICMS", Rate: dec("12"), CreatedAt: now}},
	}).Error)

	fid := freightID
	require.NoError(t, db.Omit("Freight").Create(&rawmaterialdomain.RawMaterial{
		ID:                resinID,
		Code:              "MP-001",
		Name:              "Resina PET",
		MeasurementUnit:   "KG",
		AcquisitionPrice:  dec("1.70"),
		Currency:          "USD",
		PriceConvertedBRL: dec("8.50"),
		AdditionalCost:    dec("0.5"),
		FreightID:         &fid,
		CreatedAt:         now,
		UpdatedAt:         now,
		TaxItems: []rawmaterialdomain.TaxItem{
			{ID: 11, Name: "PIS", Rate: dec("1.65"), CreatedAt: now},
			{ID: 12, Name: "COFINS", Rate: dec("7.6"), CreatedAt: now},
		},
	}).Error)
	require.NoError(t, db.Omit("Freight").Create(&rawmaterialdomain.RawMaterial{
		ID:               pigmentID,
		Code:             "MP-002",
		Name:             "Pigmento azul",
		MeasurementUnit:  "KG",
		AcquisitionPrice: dec("10"),
		Currency:         "BRL",
		CreatedAt:        now,
		UpdatedAt:        now,
	}).Error)
	require.NoError(t, db.Create(&fixedcostdomain.FixedCost{
		ID:                      fixedCostID,
		Description:             "Overhead",
		PersonnelExpenses:       dec("8000"),
		GeneralExpenses:         decimal.Zero,
		ProLabore:               decimal.Zero,
		Depreciation:            decimal.Zero,
		ConsiderationPercentage: dec("100"),
		SalesVolume:             dec("1000"),
		TotalCost:               dec("8000"),
		OverheadPerUnit:         dec("8"),
		CreatedAt:               now,
		UpdatedAt:               now,
	}).Error)

	return db
}

func newStores(db *gorm.DB) (domain.RawMaterialStore, domain.FixedCostStore) {
	p := Params{
		DB:           db,
		RawMaterials: rawmaterialrepo.Provide(),
		FixedCosts:   fixedcostrepo.Provide(),
	}
	return NewRawMaterialStore(p), NewFixedCostStore(p)
}

func TestFindRawMaterialsByIDsLoadsRelations(t *testing.T) {
	materials, _ := newStores(setupDB(t))

	records, err := materials.FindRawMaterialsByIDs(context.Background(), []snowflake.ID{
		snowflake.ID(resinID), snowflake.ID(pigmentID), snowflake.ID(999),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := map[snowflake.ID]domain.RawMaterialRecord{}
	for _, r := range records {
		byID[r.ID] = r
	}

	resin := byID[snowflake.ID(resinID)]
	assert.Len(t, resin.TaxItems, 2)
	require.NotNil(t, resin.Freight)
	assert.True(t, resin.Freight.UnitPrice.Equal(dec("150")))
	require.Len(t, resin.Freight.Taxes, 1)
	assert.Equal(t, "ICMS", resin.Freight.Taxes[0].Name)

	pigment := byID[snowflake.ID(pigmentID)]
	assert.Nil(t, pigment.Freight)
	assert.Empty(t, pigment.TaxItems)
	assert.True(t, pigment.UnitPrice().Equal(dec("10")))
}

func TestFindFixedCostByID(t *testing.T) {
	_, fixedCosts := newStores(setupDB(t))

	rec, err := fixedCosts.FindFixedCostByID(context.Background(), snowflake.ID(fixedCostID))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.OverheadPerUnit.Equal(dec("8")))

	missing, err := fixedCosts.FindFixedCostByID(context.Background(), snowflake.ID(12345))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCalculateAgainstDatabase(t *testing.T) {
	materials, fixedCosts := newStores(setupDB(t))
	calc := pricingservice.New(pricingservice.Params{
		Log:          zap.NewNop(),
		RawMaterials: materials,
		FixedCosts:   fixedCosts,
	})

	fc := snowflake.ID(fixedCostID).String()
	res, err := calc.Calculate(context.Background(), domain.CalculateRequest{
		RawMaterials: []domain.RawMaterialInput{
			{RawMaterialID: snowflake.ID(resinID).String(), Quantity: dec("5")},
		},
		FixedCostID: &fc,
	})
	require.NoError(t, err)
	assert.Equal(t, "42.50", res.Summary.RawMaterialsSubtotal.StringFixed(2))
	assert.Equal(t, "840.00", res.Summary.FreightTotal.StringFixed(2))
	assert.Equal(t, "888.93", res.Summary.PriceWithTaxesAndFreight.StringFixed(2))
	assert.Equal(t, "896.93", res.Summary.FinalPriceWithOverhead.StringFixed(2))

	_, err = calc.Calculate(context.Background(), domain.CalculateRequest{
		RawMaterials: []domain.RawMaterialInput{
			{RawMaterialID: snowflake.ID(resinID).String(), Quantity: dec("1")},
			{RawMaterialID: "987654321", Quantity: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrRawMaterialNotFound)
}
