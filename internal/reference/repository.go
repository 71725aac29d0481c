package reference

import (
	"context"

	"github.com/InteliJR/pricehub/internal/reference/domain"
)

type repository struct{}

// NewRepository serves the catalogs compiled into the binary.
func NewRepository() domain.Repository {
	return &repository{}
}

func (r *repository) ListCurrencies(ctx context.Context) ([]domain.Option, error) {
	return []domain.Option{
		{Value: string(domain.CurrencyBRL), Label: "Real (BRL)"},
		{Value: string(domain.CurrencyUSD), Label: "Dólar (USD)"},
		{Value: string(domain.CurrencyEUR), Label: "Euro (EUR)"},
	}, nil
}

func (r *repository) ListMeasurementUnits(ctx context.Context) ([]domain.Option, error) {
	return []domain.Option{
		{Value: string(domain.UnitKilogram), Label: "Quilograma (KG)"},
		{Value: string(domain.UnitGram), Label: "Grama (G)"},
		{Value: string(domain.UnitLiter), Label: "Litro (L)"},
		{Value: string(domain.UnitMilliliter), Label: "Mililitro (ML)"},
		{Value: string(domain.UnitMeter), Label: "Metro (M)"},
		{Value: string(domain.UnitCentimeter), Label: "Centímetro (CM)"},
		{Value: string(domain.UnitUnit), Label: "Unidade (UN)"},
		{Value: string(domain.UnitBox), Label: "Caixa (CX)"},
		{Value: string(domain.UnitPiece), Label: "Peça (PC)"},
	}, nil
}

func (r *repository) ListStates(ctx context.Context) ([]domain.Option, error) {
	states := domain.States()
	out := make([]domain.Option, 0, len(states))
	for _, uf := range states {
		out = append(out, domain.Option{Value: uf, Label: uf})
	}
	return out, nil
}
