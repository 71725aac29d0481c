package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RawMaterialInput is one requested bill-of-materials line.
type RawMaterialInput struct {
	RawMaterialID string          `json:"rawMaterialId"`
	Quantity      decimal.Decimal `json:"quantity"`
}

type CalculateRequest struct {
	RawMaterials []RawMaterialInput `json:"rawMaterials"`
	FixedCostID  *string            `json:"fixedCostId,omitempty"`
}

// RawMaterialRecord is the read model the engine prices from.
type RawMaterialRecord struct {
	ID                snowflake.ID
	Code              string
	Name              string
	AcquisitionPrice  decimal.Decimal
	Currency          string
	PriceConvertedBRL decimal.Decimal
	AdditionalCost    decimal.Decimal
	TaxItems          []TaxItemRecord
	Freight           *FreightRecord
}

// UnitPrice is the converted price, or the acquisition price when no conversion is recorded.
func (r RawMaterialRecord) UnitPrice() decimal.Decimal {
	if !r.PriceConvertedBRL.IsZero() {
		return r.PriceConvertedBRL
	}
	return r.AcquisitionPrice
}

type TaxItemRecord struct {
	ID          snowflake.ID
	Name        string
	Rate        decimal.Decimal
	Recoverable bool
}

type FreightRecord struct {
	ID        snowflake.ID
	UnitPrice decimal.Decimal
	Currency  string
	Taxes     []FreightTaxRecord
}

type FreightTaxRecord struct {
	ID   snowflake.ID
	Name string
	Rate decimal.Decimal
}

type FixedCostRecord struct {
	ID              snowflake.ID
	OverheadPerUnit decimal.Decimal
}

// Result is the full output of one calculation.
type Result struct {
	Breakdown []BreakdownLine `json:"breakdown"`
	Summary   Summary         `json:"summary"`
}

type BreakdownLine struct {
	RawMaterialID               snowflake.ID     `json:"-"`
	RawMaterialCode             string           `json:"rawMaterialCode"`
	RawMaterialName             string           `json:"rawMaterialName"`
	Quantity                    Quantity         `json:"quantity"`
	UnitPrice                   Money            `json:"unitPrice"`
	Subtotal                    Money            `json:"subtotal"`
	Taxes                       TaxBreakdown     `json:"taxes"`
	Freight                     FreightBreakdown `json:"freight"`
	AdditionalCost              Money            `json:"additionalCost"`
	TotalWithoutTaxesAndFreight Money            `json:"totalWithoutTaxesAndFreight"`
	TotalWithTaxesAndFreight    Money            `json:"totalWithTaxesAndFreight"`
}

type FreightBreakdown struct {
	UnitPrice Money        `json:"unitPrice"`
	Quantity  Quantity     `json:"quantity"`
	Subtotal  Money        `json:"subtotal"`
	Taxes     TaxBreakdown `json:"taxes"`
	Total     Money        `json:"total"`
}

type Summary struct {
	RawMaterialsSubtotal        Money `json:"rawMaterialsSubtotal"`
	TaxesTotal                  Money `json:"taxesTotal"`
	FreightTotal                Money `json:"freightTotal"`
	AdditionalCostsTotal        Money `json:"additionalCostsTotal"`
	PriceWithoutTaxesAndFreight Money `json:"priceWithoutTaxesAndFreight"`
	PriceWithTaxesAndFreight    Money `json:"priceWithTaxesAndFreight"`
	FixedCostOverhead           Money `json:"fixedCostOverhead"`
	FinalPriceWithOverhead      Money `json:"finalPriceWithOverhead"`
}
