package repository

import (
	"context"
	"errors"
	"time"

	"github.com/InteliJR/pricehub/internal/productgroup/domain"
	"github.com/InteliJR/pricehub/pkg/db/option"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"gorm.io/gorm"
)

const productsTable = "products"

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, group *domain.ProductGroup) error {
	return db.WithContext(ctx).Create(group).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ProductGroup, error) {
	return r.findOne(ctx, db.Where("id = ?", id))
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.ProductGroup, error) {
	return r.findOne(ctx, db.Where("name = ?", name))
}

func (r *repo) findOne(ctx context.Context, stmt *gorm.DB) (*domain.ProductGroup, error) {
	var g domain.ProductGroup
	err := stmt.WithContext(ctx).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.ProductGroup, int64, error) {
	stmt := option.WithSearch(filter.Search, "name", "description").
		Apply(db.WithContext(ctx).Model(&domain.ProductGroup{})).
		Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.ProductGroup
	err := option.Apply(stmt,
		option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
			"created_at": true,
			"name":       true,
		})),
		option.WithSortBy(option.Sort{Column: "id"}),
		option.WithPagination(pagination.Pagination{Page: filter.Page, PageSize: filter.PageSize}),
	).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, group *domain.ProductGroup) error {
	if group == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.ProductGroup{}).
		Where("id = ?", group.ID).
		Updates(map[string]any{
			"name":        group.Name,
			"description": group.Description,
			"updated_at":  group.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ProductGroup{}).Error
}

func (r *repo) DetachProducts(ctx context.Context, db *gorm.DB, id int64, at time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Table(productsTable).
		Where("product_group_id = ?", id).
		Updates(map[string]any{"product_group_id": nil, "updated_at": at})
	return res.RowsAffected, res.Error
}

// Volumes groups every product, grouped or not, by product_group_id.
func (r *repo) Volumes(ctx context.Context, db *gorm.DB) ([]domain.Volume, error) {
	var rows []domain.Volume
	err := db.WithContext(ctx).
		Table(productsTable).
		Select("product_group_id AS group_id, COUNT(*) AS count, SUM(price_with_taxes_and_freight) AS value").
		Group("product_group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
