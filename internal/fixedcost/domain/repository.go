package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductPrice is the slice of a product row overhead previews need.
type ProductPrice struct {
	ID                       int64
	Code                     string
	Name                     string
	PriceWithTaxesAndFreight decimal.Decimal
}

type ListFilter struct {
	Search   string
	SortBy   string
	OrderBy  string
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, fixedCost *FixedCost) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*FixedCost, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*FixedCost, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]FixedCost, int64, error)
	Update(ctx context.Context, db *gorm.DB, fixedCost *FixedCost) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	DetachProducts(ctx context.Context, db *gorm.DB, id int64, at time.Time) (int64, error)
	ProductsByID(ctx context.Context, db *gorm.DB, ids []int64) ([]ProductPrice, error)
	ProductsByFixedCost(ctx context.Context, db *gorm.DB, id int64) ([]ProductPrice, error)
	AttachProducts(ctx context.Context, db *gorm.DB, id int64, productIDs []int64, at time.Time) error
}
