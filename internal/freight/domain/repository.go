package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PriceAggregate struct {
	Count    int64
	SumPrice decimal.NullDecimal
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
}

type ListFilter struct {
	Search        string
	Currency      string
	OperationType string
	SortBy        string
	OrderBy       string
	Page          int
	PageSize      int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, freight *Freight) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Freight, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Freight, int64, error)
	Update(ctx context.Context, db *gorm.DB, freight *Freight) error
	ReplaceTaxes(ctx context.Context, db *gorm.DB, freightID int64, taxes []FreightTax) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	CountRawMaterials(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	CountByCurrency(ctx context.Context, db *gorm.DB) ([]CurrencyCount, error)
	CountByOperationType(ctx context.Context, db *gorm.DB) ([]OperationTypeCount, error)
	AggregatePrices(ctx context.Context, db *gorm.DB) (PriceAggregate, error)
}
