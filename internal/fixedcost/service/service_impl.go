package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/InteliJR/pricehub/internal/clock"
	"github.com/InteliJR/pricehub/internal/fixedcost/domain"
	"github.com/InteliJR/pricehub/pkg/db"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	hundred        = decimal.NewFromInt(100)
	minSalesVolume = decimal.New(1, -2)
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("fixedcost.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	now := s.clock.Now()
	f := &domain.FixedCost{
		ID:                      s.genID.Generate().Int64(),
		Depreciation:            decimal.Zero,
		ConsiderationPercentage: hundred,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}
	f.Description = description

	code, err := normalizeCode(req.Code)
	if err != nil {
		return nil, err
	}
	f.Code = code

	for _, v := range []decimal.Decimal{req.PersonnelExpenses, req.GeneralExpenses, req.ProLabore} {
		if err := validateExpense(v); err != nil {
			return nil, err
		}
	}
	f.PersonnelExpenses = req.PersonnelExpenses
	f.GeneralExpenses = req.GeneralExpenses
	f.ProLabore = req.ProLabore

	if req.Depreciation != nil {
		if err := validateExpense(*req.Depreciation); err != nil {
			return nil, err
		}
		f.Depreciation = *req.Depreciation
	}
	if req.ConsiderationPercentage != nil {
		if err := validateConsideration(*req.ConsiderationPercentage); err != nil {
			return nil, err
		}
		f.ConsiderationPercentage = *req.ConsiderationPercentage
	}
	if err := validateSalesVolume(req.SalesVolume); err != nil {
		return nil, err
	}
	f.SalesVolume = req.SalesVolume

	f.Recalculate()

	if f.Code != nil {
		existing, err := s.repo.FindByCode(ctx, s.db, *f.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrCodeConflict
		}
	}

	if err := s.repo.Create(ctx, s.db, f); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeConflict
		}
		return nil, err
	}

	s.log.Info("fixed cost created",
		zap.Int64("fixed_cost_id", f.ID),
		zap.String("overhead_per_unit", f.OverheadPerUnit.String()),
	)
	resp := toResponse(f)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Search:   strings.TrimSpace(req.Search),
		SortBy:   strings.TrimSpace(req.SortBy),
		OrderBy:  strings.TrimSpace(req.OrderBy),
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return &domain.ListResponse{Items: out, PageInfo: pagination.NewPageInfo(page, total)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	f, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(f)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	var updated *domain.FixedCost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.load(ctx, tx, req.ID)
		if err != nil {
			return err
		}

		if req.Description != nil {
			description := strings.TrimSpace(*req.Description)
			if description == "" {
				return domain.ErrInvalidDescription
			}
			f.Description = description
		}
		if req.Code != nil {
			code, err := normalizeCode(req.Code)
			if err != nil {
				return err
			}
			if code != nil && (f.Code == nil || *f.Code != *code) {
				existing, err := s.repo.FindByCode(ctx, tx, *code)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != f.ID {
					return domain.ErrCodeConflict
				}
			}
			f.Code = code
		}

		for _, field := range []struct {
			value  *decimal.Decimal
			target *decimal.Decimal
		}{
			{req.PersonnelExpenses, &f.PersonnelExpenses},
			{req.GeneralExpenses, &f.GeneralExpenses},
			{req.ProLabore, &f.ProLabore},
			{req.Depreciation, &f.Depreciation},
		} {
			if field.value == nil {
				continue
			}
			if err := validateExpense(*field.value); err != nil {
				return err
			}
			*field.target = *field.value
		}
		if req.ConsiderationPercentage != nil {
			if err := validateConsideration(*req.ConsiderationPercentage); err != nil {
				return err
			}
			f.ConsiderationPercentage = *req.ConsiderationPercentage
		}
		if req.SalesVolume != nil {
			if err := validateSalesVolume(*req.SalesVolume); err != nil {
				return err
			}
			f.SalesVolume = *req.SalesVolume
		}

		f.Recalculate()
		f.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, f); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrCodeConflict
			}
			return err
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(updated)
	return &resp, nil
}

// Delete unlinks every product that references the fixed cost, then
// removes it.
func (s *Service) Delete(ctx context.Context, id string) (*domain.DeleteResponse, error) {
	var detached int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		detached, err = s.repo.DetachProducts(ctx, tx, f.ID, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, f.ID); err != nil {
			return err
		}
		s.log.Info("fixed cost deleted",
			zap.Int64("fixed_cost_id", f.ID),
			zap.Int64("detached_products", detached),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.DeleteResponse{
		AffectedProducts: domain.AffectedProducts{Count: detached, Action: domain.DetachAction},
	}, nil
}

// CalculateOverhead previews the per-unit overhead on each target product.
// With ApplyToProducts the targets are linked to the fixed cost; stored
// price snapshots are left for the next product recalculation.
func (s *Service) CalculateOverhead(ctx context.Context, req domain.CalculateOverheadRequest) (*domain.CalculateOverheadResponse, error) {
	productIDs, err := parseProductIDs(req.ProductIDs)
	if err != nil {
		return nil, err
	}

	var resp *domain.CalculateOverheadResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.load(ctx, tx, req.ID)
		if err != nil {
			return err
		}

		var targets []domain.ProductPrice
		if len(productIDs) > 0 {
			targets, err = s.repo.ProductsByID(ctx, tx, productIDs)
		} else {
			targets, err = s.repo.ProductsByFixedCost(ctx, tx, f.ID)
		}
		if err != nil {
			return err
		}

		if req.ApplyToProducts {
			ids := make([]int64, 0, len(targets))
			for _, p := range targets {
				ids = append(ids, p.ID)
			}
			if err := s.repo.AttachProducts(ctx, tx, f.ID, ids, s.clock.Now()); err != nil {
				return err
			}
		}

		resp = overheadResponse(f, targets, req.ApplyToProducts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.ApplyToProducts {
		s.log.Info("fixed cost applied to products",
			zap.String("fixed_cost_id", resp.FixedCost.ID),
			zap.Int("products", resp.Summary.TotalProductsAffected),
		)
	}
	return resp, nil
}

func overheadResponse(f *domain.FixedCost, targets []domain.ProductPrice, applied bool) *domain.CalculateOverheadResponse {
	resp := &domain.CalculateOverheadResponse{
		FixedCost: domain.OverheadFixedCost{
			ID:              snowflake.ID(f.ID).String(),
			Description:     f.Description,
			TotalCost:       f.TotalCost,
			OverheadPerUnit: f.OverheadPerUnit,
		},
		AffectedProducts: make([]domain.OverheadProduct, 0, len(targets)),
		Summary: domain.OverheadSummary{
			TotalProductsAffected:    len(targets),
			TotalOverheadDistributed: decimal.Zero,
			Applied:                  applied,
		},
	}
	for _, p := range targets {
		resp.AffectedProducts = append(resp.AffectedProducts, domain.OverheadProduct{
			ID:                  snowflake.ID(p.ID).String(),
			Code:                p.Code,
			Name:                p.Name,
			PriceBeforeOverhead: p.PriceWithTaxesAndFreight,
			OverheadApplied:     f.OverheadPerUnit,
			PriceAfterOverhead:  p.PriceWithTaxesAndFreight.Add(f.OverheadPerUnit),
			Updated:             applied,
		})
		resp.Summary.TotalOverheadDistributed = resp.Summary.TotalOverheadDistributed.Add(f.OverheadPerUnit)
	}
	return resp
}

func parseProductIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		id, err := snowflake.ParseString(strings.TrimSpace(v))
		if err != nil {
			return nil, domain.ErrInvalidProductIDs
		}
		if _, ok := seen[id.Int64()]; ok {
			continue
		}
		seen[id.Int64()] = struct{}{}
		ids = append(ids, id.Int64())
	}
	return ids, nil
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id string) (*domain.FixedCost, error) {
	fixedCostID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	f, err := s.repo.FindByID(ctx, db, fixedCostID.Int64())
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// normalizeCode maps a blank code to no code.
func normalizeCode(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	code := strings.TrimSpace(*value)
	if code == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(code) > 50 {
		return nil, domain.ErrInvalidCode
	}
	return &code, nil
}

func isTwoPlaces(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

func validateExpense(v decimal.Decimal) error {
	if v.IsNegative() || !isTwoPlaces(v) {
		return domain.ErrInvalidExpense
	}
	return nil
}

func validateConsideration(v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) || !isTwoPlaces(v) {
		return domain.ErrInvalidConsiderationPercentage
	}
	return nil
}

func validateSalesVolume(v decimal.Decimal) error {
	if v.LessThan(minSalesVolume) || !isTwoPlaces(v) {
		return domain.ErrInvalidSalesVolume
	}
	return nil
}

func toResponse(f *domain.FixedCost) domain.Response {
	return domain.Response{
		ID:                      snowflake.ID(f.ID).String(),
		Code:                    f.Code,
		Description:             f.Description,
		PersonnelExpenses:       f.PersonnelExpenses,
		GeneralExpenses:         f.GeneralExpenses,
		ProLabore:               f.ProLabore,
		Depreciation:            f.Depreciation,
		ConsiderationPercentage: f.ConsiderationPercentage,
		SalesVolume:             f.SalesVolume,
		TotalCost:               f.TotalCost,
		OverheadPerUnit:         f.OverheadPerUnit,
		CreatedAt:               f.CreatedAt,
		UpdatedAt:               f.UpdatedAt,
	}
}
