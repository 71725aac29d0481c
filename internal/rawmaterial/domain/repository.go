package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Search          string
	MeasurementUnit string
	InputGroup      string
	SortBy          string
	OrderBy         string
	Page            int
	PageSize        int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, material *RawMaterial) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*RawMaterial, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*RawMaterial, error)
	// FindByIDs loads tax items, freight and freight taxes for every match.
	FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]RawMaterial, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]RawMaterial, int64, error)
	Update(ctx context.Context, db *gorm.DB, material *RawMaterial) error
	ReplaceTaxItems(ctx context.Context, db *gorm.DB, materialID int64, items []TaxItem) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	CountProducts(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	FreightExists(ctx context.Context, db *gorm.DB, freightID int64) (bool, error)

	InsertChangeLogs(ctx context.Context, db *gorm.DB, logs []ChangeLog) error
	ListChangeLogs(ctx context.Context, db *gorm.DB, materialID int64, page, pageSize int) ([]ChangeLog, int64, error)
	RecentChangeLogs(ctx context.Context, db *gorm.DB, limit int) ([]ChangeLog, error)
}
