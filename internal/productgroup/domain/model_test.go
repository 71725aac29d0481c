package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func volume(group *int64, count int64, value string) Volume {
	v := Volume{GroupID: group, Count: count}
	if value != "" {
		v.Value = decimal.NewNullDecimal(decimal.RequireFromString(value))
	}
	return v
}

func id(v int64) *int64 { return &v }

func TestComputeStatsSharesIncludeUngroupedProducts(t *testing.T) {
	stats := ComputeStats([]Volume{
		volume(id(1), 1, "100"),
		volume(id(2), 2, "50"),
		volume(nil, 1, "50"),
	})

	require.Len(t, stats, 2)
	assert.Equal(t, int64(1), stats[1].ProductsCount)
	assert.Equal(t, "25", stats[1].VolumePercentageByQuantity.String())
	assert.Equal(t, "50", stats[1].VolumePercentageByValue.String())
	assert.Equal(t, "100", stats[1].AveragePrice.String())

	assert.Equal(t, "50", stats[2].VolumePercentageByQuantity.String())
	assert.Equal(t, "25", stats[2].VolumePercentageByValue.String())
	assert.Equal(t, "25", stats[2].AveragePrice.String())
}

func TestComputeStatsRoundsToTwoPlaces(t *testing.T) {
	stats := ComputeStats([]Volume{
		volume(id(1), 1, "10"),
		volume(id(2), 2, "20"),
	})

	assert.Equal(t, "33.33", stats[1].VolumePercentageByQuantity.String())
	assert.Equal(t, "66.67", stats[2].VolumePercentageByQuantity.String())
	assert.Equal(t, "10", stats[2].AveragePrice.String())
}

func TestComputeStatsZeroValueCatalog(t *testing.T) {
	stats := ComputeStats([]Volume{volume(id(1), 2, "0"), volume(id(2), 1, "")})

	assert.True(t, stats[1].VolumePercentageByValue.IsZero())
	assert.True(t, stats[1].AveragePrice.IsZero())
	assert.True(t, stats[2].AveragePrice.IsZero())
	assert.Equal(t, "66.67", stats[1].VolumePercentageByQuantity.String())
}

func TestComputeStatsEmptyCatalog(t *testing.T) {
	assert.Empty(t, ComputeStats(nil))
}
