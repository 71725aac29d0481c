package repository

import (
	"context"
	"errors"
	"time"

	"github.com/InteliJR/pricehub/internal/fixedcost/domain"
	"github.com/InteliJR/pricehub/pkg/db/option"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, fixedCost *domain.FixedCost) error {
	return db.WithContext(ctx).Create(fixedCost).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.FixedCost, error) {
	return r.findOne(ctx, db.Where("id = ?", id))
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.FixedCost, error) {
	return r.findOne(ctx, db.Where("code = ?", code))
}

func (r *repo) findOne(ctx context.Context, stmt *gorm.DB) (*domain.FixedCost, error) {
	var f domain.FixedCost
	err := stmt.WithContext(ctx).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.FixedCost, int64, error) {
	stmt := option.WithSearch(filter.Search, "description", "code").
		Apply(db.WithContext(ctx).Model(&domain.FixedCost{}))

	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.FixedCost
	err := option.Apply(stmt,
		option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
			"created_at":        true,
			"description":       true,
			"total_cost":        true,
			"overhead_per_unit": true,
		})),
		option.WithPagination(pagination.Pagination{Page: filter.Page, PageSize: filter.PageSize}),
	).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, fixedCost *domain.FixedCost) error {
	if fixedCost == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.FixedCost{}).
		Where("id = ?", fixedCost.ID).
		Updates(map[string]any{
			"code":                     fixedCost.Code,
			"description":              fixedCost.Description,
			"personnel_expenses":       fixedCost.PersonnelExpenses,
			"general_expenses":         fixedCost.GeneralExpenses,
			"pro_labore":               fixedCost.ProLabore,
			"depreciation":             fixedCost.Depreciation,
			"consideration_percentage": fixedCost.ConsiderationPercentage,
			"sales_volume":             fixedCost.SalesVolume,
			"total_cost":               fixedCost.TotalCost,
			"overhead_per_unit":        fixedCost.OverheadPerUnit,
			"updated_at":               fixedCost.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.FixedCost{}).Error
}

const productsTable = "products"

func (r *repo) DetachProducts(ctx context.Context, db *gorm.DB, id int64, at time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Table(productsTable).
		Where("fixed_cost_id = ?", id).
		Updates(map[string]any{"fixed_cost_id": nil, "updated_at": at})
	return res.RowsAffected, res.Error
}

func (r *repo) ProductsByID(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.ProductPrice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.products(ctx, db.Where("id IN ?", ids))
}

func (r *repo) ProductsByFixedCost(ctx context.Context, db *gorm.DB, id int64) ([]domain.ProductPrice, error) {
	return r.products(ctx, db.Where("fixed_cost_id = ?", id))
}

func (r *repo) products(ctx context.Context, stmt *gorm.DB) ([]domain.ProductPrice, error) {
	var items []domain.ProductPrice
	err := stmt.WithContext(ctx).
		Table(productsTable).
		Select("id", "code", "name", "price_with_taxes_and_freight").
		Order("code ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) AttachProducts(ctx context.Context, db *gorm.DB, id int64, productIDs []int64, at time.Time) error {
	if len(productIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Table(productsTable).
		Where("id IN ?", productIDs).
		Updates(map[string]any{"fixed_cost_id": id, "updated_at": at}).Error
}
