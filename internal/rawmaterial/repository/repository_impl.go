package repository

import (
	"context"
	"errors"

	"github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"github.com/InteliJR/pricehub/pkg/db/option"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func byID(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TaxItems", byID).
		Preload("Freight").
		Preload("Freight.Taxes", byID)
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, material *domain.RawMaterial) error {
	return db.WithContext(ctx).Omit("Freight").Create(material).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.RawMaterial, error) {
	return r.findOne(ctx, withRelations(db).Where("id = ?", id))
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.RawMaterial, error) {
	return r.findOne(ctx, db.Where("code = ?", code))
}

func (r *repo) findOne(ctx context.Context, stmt *gorm.DB) (*domain.RawMaterial, error) {
	var m domain.RawMaterial
	err := stmt.WithContext(ctx).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.RawMaterial, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.RawMaterial
	err := withRelations(db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.RawMaterial, int64, error) {
	stmt := option.WithSearch(filter.Search, "code", "name", "input_group").
		Apply(db.WithContext(ctx).Model(&domain.RawMaterial{}))
	if filter.MeasurementUnit != "" {
		stmt = stmt.Where("measurement_unit = ?", filter.MeasurementUnit)
	}
	if filter.InputGroup != "" {
		stmt = stmt.Where("input_group = ?", filter.InputGroup)
	}

	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.RawMaterial
	err := withRelations(option.Apply(stmt,
		option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
			"created_at":        true,
			"code":              true,
			"name":              true,
			"acquisition_price": true,
		})),
		option.WithPagination(pagination.Pagination{Page: filter.Page, PageSize: filter.PageSize}),
	)).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, material *domain.RawMaterial) error {
	if material == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Model(&domain.RawMaterial{}).
		Where("id = ?", material.ID).
		Updates(map[string]any{
			"code":                material.Code,
			"name":                material.Name,
			"description":         material.Description,
			"measurement_unit":    material.MeasurementUnit,
			"input_group":         material.InputGroup,
			"payment_term":        material.PaymentTerm,
			"acquisition_price":   material.AcquisitionPrice,
			"currency":            material.Currency,
			"price_converted_brl": material.PriceConvertedBRL,
			"additional_cost":     material.AdditionalCost,
			"freight_id":          material.FreightID,
			"updated_at":          material.UpdatedAt,
		}).Error
}

func (r *repo) ReplaceTaxItems(ctx context.Context, db *gorm.DB, materialID int64, items []domain.TaxItem) error {
	if err := db.WithContext(ctx).Where("raw_material_id = ?", materialID).Delete(&domain.TaxItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Where("raw_material_id = ?", id).Delete(&domain.TaxItem{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("raw_material_id = ?", id).Delete(&domain.ChangeLog{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.RawMaterial{}).Error
}

func (r *repo) CountProducts(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Table("product_raw_materials").Where("raw_material_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repo) FreightExists(ctx context.Context, db *gorm.DB, freightID int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table("freights").Where("id = ?", freightID).Count(&count).Error
	return count > 0, err
}

func (r *repo) InsertChangeLogs(ctx context.Context, db *gorm.DB, logs []domain.ChangeLog) error {
	if len(logs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&logs).Error
}

func (r *repo) ListChangeLogs(ctx context.Context, db *gorm.DB, materialID int64, page, pageSize int) ([]domain.ChangeLog, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.ChangeLog{}).Where("raw_material_id = ?", materialID)

	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []domain.ChangeLog
	err := option.Apply(stmt,
		option.WithSortBy(option.Sort{Column: "changed_at", Desc: true}),
		option.WithSortBy(option.Sort{Column: "id", Desc: true}),
		option.WithPagination(pagination.Pagination{Page: page, PageSize: pageSize}),
	).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *repo) RecentChangeLogs(ctx context.Context, db *gorm.DB, limit int) ([]domain.ChangeLog, error) {
	var logs []domain.ChangeLog
	err := option.Apply(db.WithContext(ctx).Model(&domain.ChangeLog{}),
		option.WithSortBy(option.Sort{Column: "changed_at", Desc: true}),
		option.WithSortBy(option.Sort{Column: "id", Desc: true}),
	).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
