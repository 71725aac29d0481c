package repository

import (
	"context"
	"errors"

	"github.com/InteliJR/pricehub/internal/product/domain"
	"github.com/InteliJR/pricehub/pkg/db/option"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func byPosition(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	return r.findOne(ctx, db.Preload("RawMaterials", byPosition).Where("id = ?", id))
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Product, error) {
	return r.findOne(ctx, db.Where("code = ?", code))
}

func (r *repo) findOne(ctx context.Context, stmt *gorm.DB) (*domain.Product, error) {
	var p domain.Product
	err := stmt.WithContext(ctx).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Product, int64, error) {
	stmt := option.WithSearch(filter.Search, "code", "name").
		Apply(db.WithContext(ctx).Model(&domain.Product{}))
	if filter.ProductGroupID != nil {
		stmt = stmt.Where("product_group_id = ?", *filter.ProductGroupID)
	}
	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Product
	err := option.Apply(stmt,
		option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
			"created_at":                   true,
			"code":                         true,
			"name":                         true,
			"price_with_taxes_and_freight": true,
		})),
		option.WithPagination(pagination.Pagination{Page: filter.Page, PageSize: filter.PageSize}),
	).
		Preload("RawMaterials", byPosition).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"code":                            product.Code,
			"name":                            product.Name,
			"description":                     product.Description,
			"fixed_cost_id":                   product.FixedCostID,
			"product_group_id":                product.ProductGroupID,
			"price_without_taxes_and_freight": product.PriceWithoutTaxesAndFreight,
			"price_with_taxes_and_freight":    product.PriceWithTaxesAndFreight,
			"metadata":                        product.Metadata,
			"updated_at":                      product.UpdatedAt,
		}).Error
}

func (r *repo) ReplaceRawMaterials(ctx context.Context, db *gorm.DB, productID int64, lines []domain.ProductRawMaterial) error {
	if err := db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.ProductRawMaterial{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Where("product_id = ?", id).Delete(&domain.ProductRawMaterial{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
}

func (r *repo) ProductGroupExists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table("product_groups").Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
