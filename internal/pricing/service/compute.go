package service

import (
	"github.com/InteliJR/pricehub/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// Item is a resolved raw material and the quantity requested for it.
type Item struct {
	Material domain.RawMaterialRecord
	Quantity decimal.Decimal
}

type lineTotals struct {
	subtotal   decimal.Decimal
	taxes      decimal.Decimal
	freight    decimal.Decimal
	additional decimal.Decimal
}

// Compute prices already-validated items. It performs no I/O and the same
// input always produces the same result. Output lines follow input order.
func Compute(items []Item, fixedCost *domain.FixedCostRecord) domain.Result {
	var rawMaterials, taxes, freight, additional decimal.Decimal

	lines := make([]domain.BreakdownLine, 0, len(items))
	for _, item := range items {
		line, totals := computeLine(item)
		lines = append(lines, line)

		rawMaterials = rawMaterials.Add(totals.subtotal)
		taxes = taxes.Add(totals.taxes)
		freight = freight.Add(totals.freight)
		additional = additional.Add(totals.additional)
	}

	priceWithout := rawMaterials.Add(additional)
	priceWith := domain.NewMoney(priceWithout.Add(taxes).Add(freight))

	overhead := domain.NewMoney(decimal.Zero)
	if fixedCost != nil {
		overhead = domain.NewMoney(fixedCost.OverheadPerUnit)
	}

	return domain.Result{
		Breakdown: lines,
		Summary: domain.Summary{
			RawMaterialsSubtotal:        domain.NewMoney(rawMaterials),
			TaxesTotal:                  domain.NewMoney(taxes),
			FreightTotal:                domain.NewMoney(freight),
			AdditionalCostsTotal:        domain.NewMoney(additional),
			PriceWithoutTaxesAndFreight: domain.NewMoney(priceWithout),
			PriceWithTaxesAndFreight:    priceWith,
			FixedCostOverhead:           overhead,
			// both operands already have two places, so the sum is exact
			FinalPriceWithOverhead: domain.NewMoney(priceWith.Add(overhead.Decimal)),
		},
	}
}

func computeLine(item Item) (domain.BreakdownLine, lineTotals) {
	material := item.Material
	qty := item.Quantity
	unitPrice := material.UnitPrice()
	subtotal := unitPrice.Mul(qty)

	taxItems := make([]domain.TaxAmount, 0, len(material.TaxItems))
	charged := decimal.Zero
	for _, tax := range material.TaxItems {
		value := percentOf(subtotal, tax.Rate)
		if !tax.Recoverable {
			charged = charged.Add(value)
		}
		taxItems = append(taxItems, domain.TaxAmount{
			Name:        tax.Name,
			Amount:      domain.NewMoney(value),
			Recoverable: tax.Recoverable,
		})
	}

	freight, freightTotal := computeFreight(material.Freight, qty)
	additional := material.AdditionalCost.Mul(qty)

	line := domain.BreakdownLine{
		RawMaterialID:   material.ID,
		RawMaterialCode: material.Code,
		RawMaterialName: material.Name,
		Quantity:        domain.Quantity{Decimal: qty},
		UnitPrice:       domain.NewMoney(unitPrice),
		Subtotal:        domain.NewMoney(subtotal),
		Taxes: domain.TaxBreakdown{
			Items: taxItems,
			Total: domain.NewMoney(charged),
		},
		Freight:                     freight,
		AdditionalCost:              domain.NewMoney(additional),
		TotalWithoutTaxesAndFreight: domain.NewMoney(subtotal),
		TotalWithTaxesAndFreight:    domain.NewMoney(subtotal.Add(charged).Add(freightTotal).Add(additional)),
	}

	return line, lineTotals{
		subtotal:   subtotal,
		taxes:      charged,
		freight:    freightTotal,
		additional: additional,
	}
}

func computeFreight(freight *domain.FreightRecord, qty decimal.Decimal) (domain.FreightBreakdown, decimal.Decimal) {
	if freight == nil {
		zero := domain.NewMoney(decimal.Zero)
		return domain.FreightBreakdown{
			UnitPrice: zero,
			Quantity:  domain.Quantity{Decimal: qty},
			Subtotal:  zero,
			Taxes:     domain.TaxBreakdown{Items: []domain.TaxAmount{}, Total: zero},
			Total:     zero,
		}, decimal.Zero
	}

	subtotal := freight.UnitPrice.Mul(qty)
	taxItems := make([]domain.TaxAmount, 0, len(freight.Taxes))
	taxes := decimal.Zero
	for _, tax := range freight.Taxes {
		value := percentOf(subtotal, tax.Rate)
		taxes = taxes.Add(value)
		taxItems = append(taxItems, domain.TaxAmount{
			Name:   tax.Name,
			Amount: domain.NewMoney(value),
		})
	}
	total := subtotal.Add(taxes)

	return domain.FreightBreakdown{
		UnitPrice: domain.NewMoney(freight.UnitPrice),
		Quantity:  domain.Quantity{Decimal: qty},
		Subtotal:  domain.NewMoney(subtotal),
		Taxes:     domain.TaxBreakdown{Items: taxItems, Total: domain.NewMoney(taxes)},
		Total:     domain.NewMoney(total),
	}, total
}

// percentOf returns amount × rate/100. Shifting the rate keeps the division exact.
func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate.Shift(-2))
}
