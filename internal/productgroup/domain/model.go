package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatPlaces is the precision of the derived volume figures.
const StatPlaces = 2

type ProductGroup struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_product_groups_name"`
	Description *string   `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ProductGroup) TableName() string { return "product_groups" }

// Volume aggregates the stored price snapshots of the products in one group.
// A nil GroupID collects ungrouped products.
type Volume struct {
	GroupID *int64
	Count   int64
	Value   decimal.NullDecimal
}

// Stats are a group's share of the whole product catalog.
type Stats struct {
	ProductsCount              int64
	VolumePercentageByQuantity decimal.Decimal
	VolumePercentageByValue    decimal.Decimal
	AveragePrice               decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeStats derives per-group stats from the catalog volumes. Every ratio
// is zero when its denominator is zero.
func ComputeStats(volumes []Volume) map[int64]Stats {
	var totalCount int64
	totalValue := decimal.Zero
	for _, v := range volumes {
		totalCount += v.Count
		if v.Value.Valid {
			totalValue = totalValue.Add(v.Value.Decimal)
		}
	}

	out := make(map[int64]Stats, len(volumes))
	for _, v := range volumes {
		if v.GroupID == nil {
			continue
		}
		value := decimal.Zero
		if v.Value.Valid {
			value = v.Value.Decimal
		}
		stats := Stats{
			ProductsCount:              v.Count,
			VolumePercentageByQuantity: decimal.Zero,
			VolumePercentageByValue:    decimal.Zero,
			AveragePrice:               decimal.Zero,
		}
		if totalCount > 0 {
			stats.VolumePercentageByQuantity = decimal.NewFromInt(v.Count).Mul(hundred).
				DivRound(decimal.NewFromInt(totalCount), StatPlaces)
		}
		if !totalValue.IsZero() {
			stats.VolumePercentageByValue = value.Mul(hundred).DivRound(totalValue, StatPlaces)
		}
		if v.Count > 0 {
			stats.AveragePrice = value.DivRound(decimal.NewFromInt(v.Count), StatPlaces)
		}
		out[*v.GroupID] = stats
	}
	return out
}
