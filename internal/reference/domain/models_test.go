package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	c, ok := ParseCurrency(" usd ")
	assert.True(t, ok)
	assert.Equal(t, CurrencyUSD, c)

	_, ok = ParseCurrency("GBP")
	assert.False(t, ok)
}

func TestParseMeasurementUnit(t *testing.T) {
	u, ok := ParseMeasurementUnit("kg")
	assert.True(t, ok)
	assert.Equal(t, UnitKilogram, u)

	_, ok = ParseMeasurementUnit("TON")
	assert.False(t, ok)
}

func TestParseState(t *testing.T) {
	uf, ok := ParseState("sp")
	assert.True(t, ok)
	assert.Equal(t, "SP", uf)

	_, ok = ParseState("XX")
	assert.False(t, ok)
}

func TestParseFreightOperationType(t *testing.T) {
	op, ok := ParseFreightOperationType("external")
	assert.True(t, ok)
	assert.Equal(t, OperationExternal, op)

	_, ok = ParseFreightOperationType("")
	assert.False(t, ok)
}
