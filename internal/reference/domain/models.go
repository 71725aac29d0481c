package domain

import "strings"

// Currency is an ISO 4217 code accepted for acquisition and freight prices.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var currencies = []Currency{CurrencyBRL, CurrencyUSD, CurrencyEUR}

// ParseCurrency normalizes a code and reports whether it is supported.
func ParseCurrency(value string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range currencies {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type MeasurementUnit string

const (
	UnitKilogram   MeasurementUnit = "KG"
	UnitGram       MeasurementUnit = "G"
	UnitLiter      MeasurementUnit = "L"
	UnitMilliliter MeasurementUnit = "ML"
	UnitMeter      MeasurementUnit = "M"
	UnitCentimeter MeasurementUnit = "CM"
	UnitUnit       MeasurementUnit = "UN"
	UnitBox        MeasurementUnit = "CX"
	UnitPiece      MeasurementUnit = "PC"
)

var measurementUnits = []MeasurementUnit{
	UnitKilogram, UnitGram, UnitLiter, UnitMilliliter,
	UnitMeter, UnitCentimeter, UnitUnit, UnitBox, UnitPiece,
}

func ParseMeasurementUnit(value string) (MeasurementUnit, bool) {
	u := MeasurementUnit(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range measurementUnits {
		if u == known {
			return u, true
		}
	}
	return "", false
}

// FreightOperationType tells whether a route stays inside one state.
type FreightOperationType string

const (
	OperationInternal FreightOperationType = "INTERNAL"
	OperationExternal FreightOperationType = "EXTERNAL"
)

func ParseFreightOperationType(value string) (FreightOperationType, bool) {
	op := FreightOperationType(strings.ToUpper(strings.TrimSpace(value)))
	switch op {
	case OperationInternal, OperationExternal:
		return op, true
	default:
		return "", false
	}
}

// Brazilian federative units.
var states = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

func States() []string {
	return append([]string(nil), states...)
}

func ParseState(value string) (string, bool) {
	uf := strings.ToUpper(strings.TrimSpace(value))
	for _, known := range states {
		if uf == known {
			return uf, true
		}
	}
	return "", false
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
