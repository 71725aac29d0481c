package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Search         string
	ProductGroupID *int64
	SortBy         string
	OrderBy        string
	Page           int
	PageSize       int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Product, int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	ReplaceRawMaterials(ctx context.Context, db *gorm.DB, productID int64, lines []ProductRawMaterial) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	ProductGroupExists(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}
