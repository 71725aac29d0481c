package domain

import "context"

type Repository interface {
	ListCurrencies(ctx context.Context) ([]Option, error)
	ListMeasurementUnits(ctx context.Context) ([]Option, error)
	ListStates(ctx context.Context) ([]Option, error)
}
