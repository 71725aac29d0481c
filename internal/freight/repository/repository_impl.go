package repository

import (
	"context"
	"errors"

	"github.com/InteliJR/pricehub/internal/freight/domain"
	"github.com/InteliJR/pricehub/pkg/db/option"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, freight *domain.Freight) error {
	return db.WithContext(ctx).Create(freight).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Freight, error) {
	var f domain.Freight
	err := db.WithContext(ctx).
		Preload("Taxes", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("id = ?", id).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Freight, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Freight{})
	stmt = option.WithSearch(filter.Search, "name", "origin_city", "destination_city", "cargo_type").Apply(stmt)
	if filter.Currency != "" {
		stmt = stmt.Where("currency = ?", filter.Currency)
	}
	if filter.OperationType != "" {
		stmt = stmt.Where("operation_type = ?", filter.OperationType)
	}

	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Freight
	err := option.Apply(stmt,
		option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
			"created_at": true,
			"name":       true,
			"unit_price": true,
		})),
		option.WithPagination(pagination.Pagination{Page: filter.Page, PageSize: filter.PageSize}),
	).
		Preload("Taxes", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, freight *domain.Freight) error {
	if freight == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.Freight{}).
		Where("id = ?", freight.ID).
		Updates(map[string]any{
			"name":             freight.Name,
			"description":      freight.Description,
			"unit_price":       freight.UnitPrice,
			"currency":         freight.Currency,
			"origin_uf":        freight.OriginUF,
			"origin_city":      freight.OriginCity,
			"destination_uf":   freight.DestinationUF,
			"destination_city": freight.DestinationCity,
			"cargo_type":       freight.CargoType,
			"operation_type":   freight.OperationType,
			"updated_at":       freight.UpdatedAt,
		}).Error
}

func (r *repo) ReplaceTaxes(ctx context.Context, db *gorm.DB, freightID int64, taxes []domain.FreightTax) error {
	if err := db.WithContext(ctx).Where("freight_id = ?", freightID).Delete(&domain.FreightTax{}).Error; err != nil {
		return err
	}
	if len(taxes) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&taxes).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Where("freight_id = ?", id).Delete(&domain.FreightTax{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Freight{}).Error
}

func (r *repo) CountRawMaterials(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Table("raw_materials").Where("freight_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repo) CountByCurrency(ctx context.Context, db *gorm.DB) ([]domain.CurrencyCount, error) {
	var rows []domain.CurrencyCount
	err := db.WithContext(ctx).
		Model(&domain.Freight{}).
		Select("currency, COUNT(*) AS count").
		Group("currency").
		Order("currency ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repo) CountByOperationType(ctx context.Context, db *gorm.DB) ([]domain.OperationTypeCount, error) {
	var rows []domain.OperationTypeCount
	err := db.WithContext(ctx).
		Model(&domain.Freight{}).
		Select("operation_type, COUNT(*) AS count").
		Group("operation_type").
		Order("operation_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repo) AggregatePrices(ctx context.Context, db *gorm.DB) (domain.PriceAggregate, error) {
	var agg domain.PriceAggregate
	err := db.WithContext(ctx).
		Model(&domain.Freight{}).
		Select("COUNT(*) AS count, SUM(unit_price) AS sum_price, MIN(unit_price) AS min_price, MAX(unit_price) AS max_price").
		Scan(&agg).Error
	return agg, err
}
