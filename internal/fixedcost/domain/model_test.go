package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecalculate(t *testing.T) {
	f := FixedCost{
		PersonnelExpenses:       decimal.RequireFromString("10000"),
		GeneralExpenses:         decimal.RequireFromString("5000"),
		ProLabore:               decimal.RequireFromString("3000"),
		Depreciation:            decimal.RequireFromString("2000"),
		ConsiderationPercentage: decimal.RequireFromString("50"),
		SalesVolume:             decimal.RequireFromString("1000"),
	}
	f.Recalculate()

	assert.Equal(t, "20000", f.TotalCost.String())
	assert.Equal(t, "10", f.OverheadPerUnit.String())
}

func TestRecalculateRoundsOverheadToFourPlaces(t *testing.T) {
	f := FixedCost{
		PersonnelExpenses:       decimal.RequireFromString("100"),
		GeneralExpenses:         decimal.Zero,
		ProLabore:               decimal.Zero,
		Depreciation:            decimal.Zero,
		ConsiderationPercentage: decimal.NewFromInt(100),
		SalesVolume:             decimal.NewFromInt(3),
	}
	f.Recalculate()

	assert.Equal(t, "33.3333", f.OverheadPerUnit.String())
}
