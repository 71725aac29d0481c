package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/InteliJR/pricehub/internal/clock"
	"github.com/InteliJR/pricehub/internal/freight/domain"
	referencedomain "github.com/InteliJR/pricehub/internal/reference/domain"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

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
		log:   p.Log.Named("freight.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	now := s.clock.Now()
	f := &domain.Freight{
		ID:        s.genID.Generate().Int64(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	if f.Name, err = validateName(req.Name); err != nil {
		return nil, err
	}
	if f.Description, err = validateDescription(req.Description); err != nil {
		return nil, err
	}
	if f.UnitPrice, err = validateUnitPrice(req.UnitPrice); err != nil {
		return nil, err
	}
	if f.Currency, err = validateCurrency(req.Currency); err != nil {
		return nil, err
	}
	if f.OriginUF, err = validateState(req.OriginUF, domain.ErrInvalidOriginUF); err != nil {
		return nil, err
	}
	if f.OriginCity, err = validateText(req.OriginCity, 100, domain.ErrInvalidOriginCity); err != nil {
		return nil, err
	}
	if f.DestinationUF, err = validateState(req.DestinationUF, domain.ErrInvalidDestinationUF); err != nil {
		return nil, err
	}
	if f.DestinationCity, err = validateText(req.DestinationCity, 100, domain.ErrInvalidDestCity); err != nil {
		return nil, err
	}
	if f.CargoType, err = validateText(req.CargoType, 100, domain.ErrInvalidCargoType); err != nil {
		return nil, err
	}
	if f.OperationType, err = validateOperationType(req.OperationType); err != nil {
		return nil, err
	}
	if f.Taxes, err = s.buildTaxes(f.ID, req.FreightTaxes, now); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, s.db, f); err != nil {
		return nil, err
	}

	s.log.Info("freight created", zap.Int64("freight_id", f.ID), zap.Int("taxes", len(f.Taxes)))
	resp := toResponse(f)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := req.Pagination.Normalize()
	filter := domain.ListFilter{
		Search:   strings.TrimSpace(req.Search),
		SortBy:   strings.TrimSpace(req.SortBy),
		OrderBy:  strings.TrimSpace(req.OrderBy),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	if strings.TrimSpace(req.Currency) != "" {
		currency, err := validateCurrency(req.Currency)
		if err != nil {
			return nil, err
		}
		filter.Currency = currency
	}
	if strings.TrimSpace(req.OperationType) != "" {
		op, err := validateOperationType(req.OperationType)
		if err != nil {
			return nil, err
		}
		filter.OperationType = op
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return &domain.ListResponse{
		Items:    out,
		PageInfo: pagination.NewPageInfo(page, total),
	}, nil
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
	var updated *domain.Freight
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.load(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		if err := applyUpdate(f, req); err != nil {
			return err
		}

		now := s.clock.Now()
		f.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, f); err != nil {
			return err
		}

		if req.FreightTaxes != nil {
			taxes, err := s.buildTaxes(f.ID, *req.FreightTaxes, now)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceTaxes(ctx, tx, f.ID, taxes); err != nil {
				return err
			}
			f.Taxes = taxes
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

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		refs, err := s.repo.CountRawMaterials(ctx, tx, f.ID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrInUse
		}
		if err := s.repo.Delete(ctx, tx, f.ID); err != nil {
			return err
		}
		s.log.Info("freight deleted", zap.Int64("freight_id", f.ID))
		return nil
	})
}

// Statistics runs the three aggregates concurrently.
func (s *Service) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var (
		byCurrency      []domain.CurrencyCount
		byOperationType []domain.OperationTypeCount
		agg             domain.PriceAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byCurrency, err = s.repo.CountByCurrency(gctx, s.db)
		return err
	})
	g.Go(func() error {
		var err error
		byOperationType, err = s.repo.CountByOperationType(gctx, s.db)
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.repo.AggregatePrices(gctx, s.db)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &domain.Statistics{
		Total:           agg.Count,
		ByCurrency:      byCurrency,
		ByOperationType: byOperationType,
	}
	if stats.ByCurrency == nil {
		stats.ByCurrency = []domain.CurrencyCount{}
	}
	if stats.ByOperationType == nil {
		stats.ByOperationType = []domain.OperationTypeCount{}
	}
	if agg.Count > 0 && agg.SumPrice.Valid {
		avg := agg.SumPrice.Decimal.DivRound(decimal.NewFromInt(agg.Count), domain.PricePlaces)
		stats.Prices.Average = &avg
	}
	if agg.MinPrice.Valid {
		stats.Prices.Min = &agg.MinPrice.Decimal
	}
	if agg.MaxPrice.Valid {
		stats.Prices.Max = &agg.MaxPrice.Decimal
	}
	return stats, nil
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id string) (*domain.Freight, error) {
	freightID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	f, err := s.repo.FindByID(ctx, db, freightID.Int64())
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (s *Service) buildTaxes(freightID int64, reqs []domain.TaxRequest, now time.Time) ([]domain.FreightTax, error) {
	taxes := make([]domain.FreightTax, 0, len(reqs))
	for _, req := range reqs {
		name := strings.TrimSpace(req.Name)
		if name == "" || utf8.RuneCountInString(name) > 100 {
			return nil, domain.ErrInvalidTaxName
		}
		if req.Rate.IsNegative() || req.Rate.GreaterThan(hundred) || !req.Rate.Equal(req.Rate.Round(domain.RatePlaces)) {
			return nil, domain.ErrInvalidTaxRate
		}
		taxes = append(taxes, domain.FreightTax{
			ID:        s.genID.Generate().Int64(),
			FreightID: freightID,
			Name:      name,
			Rate:      req.Rate,
			CreatedAt: now,
		})
	}
	return taxes, nil
}

func applyUpdate(f *domain.Freight, req domain.UpdateRequest) error {
	var err error
	if req.Name != nil {
		if f.Name, err = validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if f.Description, err = validateDescription(req.Description); err != nil {
			return err
		}
	}
	if req.UnitPrice != nil {
		if f.UnitPrice, err = validateUnitPrice(*req.UnitPrice); err != nil {
			return err
		}
	}
	if req.Currency != nil {
		if f.Currency, err = validateCurrency(*req.Currency); err != nil {
			return err
		}
	}
	if req.OriginUF != nil {
		if f.OriginUF, err = validateState(*req.OriginUF, domain.ErrInvalidOriginUF); err != nil {
			return err
		}
	}
	if req.OriginCity != nil {
		if f.OriginCity, err = validateText(*req.OriginCity, 100, domain.ErrInvalidOriginCity); err != nil {
			return err
		}
	}
	if req.DestinationUF != nil {
		if f.DestinationUF, err = validateState(*req.DestinationUF, domain.ErrInvalidDestinationUF); err != nil {
			return err
		}
	}
	if req.DestinationCity != nil {
		if f.DestinationCity, err = validateText(*req.DestinationCity, 100, domain.ErrInvalidDestCity); err != nil {
			return err
		}
	}
	if req.CargoType != nil {
		if f.CargoType, err = validateText(*req.CargoType, 100, domain.ErrInvalidCargoType); err != nil {
			return err
		}
	}
	if req.OperationType != nil {
		if f.OperationType, err = validateOperationType(*req.OperationType); err != nil {
			return err
		}
	}
	return nil
}

func validateName(value string) (string, error) {
	return validateText(value, 255, domain.ErrInvalidName)
}

func validateText(value string, max int, invalid error) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || utf8.RuneCountInString(value) > max {
		return "", invalid
	}
	return value, nil
}

func validateDescription(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	description := strings.TrimSpace(*value)
	if description == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(description) > 5000 {
		return nil, domain.ErrInvalidDescription
	}
	return &description, nil
}

// Unit prices are positive with at most two decimal places.
func validateUnitPrice(value decimal.Decimal) (decimal.Decimal, error) {
	if !value.IsPositive() || !value.Equal(value.Round(2)) {
		return decimal.Zero, domain.ErrInvalidUnitPrice
	}
	return value, nil
}

func validateCurrency(value string) (string, error) {
	c, ok := referencedomain.ParseCurrency(value)
	if !ok {
		return "", domain.ErrInvalidCurrency
	}
	return string(c), nil
}

func validateState(value string, invalid error) (string, error) {
	uf, ok := referencedomain.ParseState(value)
	if !ok {
		return "", invalid
	}
	return uf, nil
}

func validateOperationType(value string) (string, error) {
	op, ok := referencedomain.ParseFreightOperationType(value)
	if !ok {
		return "", domain.ErrInvalidOperationType
	}
	return string(op), nil
}

func toResponse(f *domain.Freight) domain.Response {
	taxes := make([]domain.TaxResponse, 0, len(f.Taxes))
	for _, tax := range f.Taxes {
		taxes = append(taxes, domain.TaxResponse{
			ID:   snowflake.ID(tax.ID).String(),
			Name: tax.Name,
			Rate: tax.Rate,
		})
	}
	return domain.Response{
		ID:              snowflake.ID(f.ID).String(),
		Name:            f.Name,
		Description:     f.Description,
		UnitPrice:       f.UnitPrice,
		Currency:        f.Currency,
		OriginUF:        f.OriginUF,
		OriginCity:      f.OriginCity,
		DestinationUF:   f.DestinationUF,
		DestinationCity: f.DestinationCity,
		CargoType:       f.CargoType,
		OperationType:   f.OperationType,
		FreightTaxes:    taxes,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}
