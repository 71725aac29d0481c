package service

import (
	"encoding/json"
	"testing"

	"github.com/InteliJR/pricehub/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_DuplicateTaxNamesOverwriteViewButSumTotal(t *testing.T) {
	material := domain.RawMaterialRecord{
		ID:               boxID,
		Code:             "EMB-01",
		Name:             "Caixa",
		AcquisitionPrice: dec("100"),
		TaxItems: []domain.TaxItemRecord{
			{Name: "ICMS", Rate: dec("10")},
			{Name: "ICMS", Rate: dec("5")},
		},
	}

	res := Compute([]Item{{Material: material, Quantity: dec("1")}}, nil)

	taxes := res.Breakdown[0].Taxes
	require.Len(t, taxes.Items, 2)
	assertMoney(t, "10.00", taxes.Items[0].Amount, "first ICMS kept in list")
	assertMoney(t, "5.00", taxes.Map()["ICMS"], "map shows the later value")
	assertMoney(t, "15.00", taxes.Total, "total counts both")
	assertMoney(t, "15.00", res.Summary.TaxesTotal, "summary counts both")
}

func TestCompute_AmountsAreNonNegative(t *testing.T) {
	res := Compute([]Item{
		{Material: resin(false), Quantity: dec("0.001")},
		{Material: pigment(), Quantity: dec("1234.5678")},
	}, &domain.FixedCostRecord{OverheadPerUnit: dec("0")})

	s := res.Summary
	for name, m := range map[string]domain.Money{
		"rawMaterialsSubtotal": s.RawMaterialsSubtotal,
		"taxesTotal":           s.TaxesTotal,
		"freightTotal":         s.FreightTotal,
		"additionalCostsTotal": s.AdditionalCostsTotal,
		"priceWithout":         s.PriceWithoutTaxesAndFreight,
		"priceWith":            s.PriceWithTaxesAndFreight,
		"overhead":             s.FixedCostOverhead,
		"final":                s.FinalPriceWithOverhead,
	} {
		assert.False(t, m.IsNegative(), name)
	}
}

func TestCompute_SummaryAdditivityWithinLineTolerance(t *testing.T) {
	items := []Item{
		{Material: resin(false), Quantity: dec("3.333")},
		{Material: resin(true), Quantity: dec("1.777")},
		{Material: pigment(), Quantity: dec("0.125")},
	}
	// same material id twice is fine for the pure function
	res := Compute(items, nil)

	s := res.Summary
	sum := s.PriceWithoutTaxesAndFreight.Add(s.TaxesTotal.Decimal).Add(s.FreightTotal.Decimal)
	diff := sum.Sub(s.PriceWithTaxesAndFreight.Decimal).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.03")), "diff %s", diff)
}

func TestResultJSONShape(t *testing.T) {
	res := Compute([]Item{{Material: resin(false), Quantity: dec("5")}}, nil)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Breakdown []struct {
			RawMaterialCode string             `json:"rawMaterialCode"`
			Quantity        json.Number        `json:"quantity"`
			Subtotal        json.Number        `json:"subtotal"`
			Taxes           map[string]float64 `json:"taxes"`
			Freight         struct {
				UnitPrice json.Number        `json:"unitPrice"`
				Taxes     map[string]float64 `json:"taxes"`
				Total     json.Number        `json:"total"`
			} `json:"freight"`
		} `json:"breakdown"`
		Summary map[string]json.Number `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Len(t, decoded.Breakdown, 1)
	b := decoded.Breakdown[0]
	assert.Equal(t, "5", b.Quantity.String())
	assert.Equal(t, "42.50", b.Subtotal.String())
	assert.Equal(t, map[string]float64{"PIS": 0.70, "COFINS": 3.23, "total": 3.93}, b.Taxes)
	assert.Equal(t, "150.00", b.Freight.UnitPrice.String())
	assert.Equal(t, map[string]float64{"ICMS": 90, "total": 90}, b.Freight.Taxes)
	assert.Equal(t, "840.00", b.Freight.Total.String())

	assert.Equal(t, "888.93", decoded.Summary["priceWithTaxesAndFreight"].String())
	assert.Equal(t, "0.00", decoded.Summary["fixedCostOverhead"].String())
	assert.Len(t, decoded.Summary, 8)
}

func TestTaxBreakdownJSONOrdersNamesAndPutsTotalLast(t *testing.T) {
	tb := domain.TaxBreakdown{
		Items: []domain.TaxAmount{
			{Name: "PIS", Amount: domain.NewMoney(dec("0.701"))},
			{Name: "COFINS", Amount: domain.NewMoney(dec("3.23"))},
		},
		Total: domain.NewMoney(dec("3.931")),
	}
	raw, err := json.Marshal(tb)
	require.NoError(t, err)
	assert.Equal(t, `{"COFINS":3.23,"PIS":0.70,"total":3.93}`, string(raw))

	empty, err := json.Marshal(domain.TaxBreakdown{})
	require.NoError(t, err)
	assert.Equal(t, `{"total":0.00}`, string(empty))
}
