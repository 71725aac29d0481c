package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	Search   string
	SortBy   string
	OrderBy  string
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, group *ProductGroup) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*ProductGroup, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*ProductGroup, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]ProductGroup, int64, error)
	Update(ctx context.Context, db *gorm.DB, group *ProductGroup) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	DetachProducts(ctx context.Context, db *gorm.DB, id int64, at time.Time) (int64, error)
	Volumes(ctx context.Context, db *gorm.DB) ([]Volume, error)
}
