package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/InteliJR/pricehub/internal/clock"
	"github.com/InteliJR/pricehub/internal/config"
	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	"github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	referencedomain "github.com/InteliJR/pricehub/internal/reference/domain"
	"github.com/InteliJR/pricehub/pkg/db"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	systemActor     = "system"
	convertedPlaces = 4
	taxRatePlaces   = 4

	defaultRecentChanges = 10
	maxRecentChanges     = 100
)

var (
	hundred    = decimal.NewFromInt(100)
	minTaxRate = decimal.New(1, -2)
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Rates *config.ExchangeRateHolder
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	rates *config.ExchangeRateHolder
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("rawmaterial.service"),
		genID: p.GenID,
		clock: p.Clock,
		rates: p.Rates,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	now := s.clock.Now()
	m := &domain.RawMaterial{
		ID:          s.genID.Generate().Int64(),
		PaymentTerm: req.PaymentTerm,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	if m.Code, err = validateCode(req.Code); err != nil {
		return nil, err
	}
	if m.Name, err = validateName(req.Name); err != nil {
		return nil, err
	}
	if m.Description, err = optionalText(req.Description, 500, domain.ErrInvalidDescription); err != nil {
		return nil, err
	}
	if m.MeasurementUnit, err = validateMeasurementUnit(req.MeasurementUnit); err != nil {
		return nil, err
	}
	if m.InputGroup, err = optionalText(req.InputGroup, 60, domain.ErrInvalidInputGroup); err != nil {
		return nil, err
	}
	if err := validatePaymentTerm(req.PaymentTerm); err != nil {
		return nil, err
	}
	if !req.AcquisitionPrice.IsPositive() {
		return nil, domain.ErrInvalidAcquisitionPrice
	}
	m.AcquisitionPrice = req.AcquisitionPrice
	if m.Currency, err = validateCurrency(req.Currency); err != nil {
		return nil, err
	}
	if req.AdditionalCost.IsNegative() {
		return nil, domain.ErrInvalidAdditionalCost
	}
	m.AdditionalCost = req.AdditionalCost

	if req.PriceConvertedBRL != nil {
		if req.PriceConvertedBRL.IsNegative() {
			return nil, domain.ErrInvalidConvertedPrice
		}
		m.PriceConvertedBRL = *req.PriceConvertedBRL
	} else {
		m.PriceConvertedBRL = s.convert(m.AcquisitionPrice, m.Currency)
	}

	if m.TaxItems, err = s.buildTaxItems(m.ID, req.TaxItems, now); err != nil {
		return nil, err
	}

	if actor, _ := obsctx.ActorFromContext(ctx); actor != "" {
		m.CreatedBy = &actor
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		freightID, err := s.resolveFreight(ctx, tx, req.FreightID)
		if err != nil {
			return err
		}
		m.FreightID = freightID

		existing, err := s.repo.FindByCode(ctx, tx, m.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrCodeConflict
		}
		if err := s.repo.Create(ctx, tx, m); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrCodeConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("raw material created",
		zap.Int64("raw_material_id", m.ID),
		zap.String("code", m.Code),
		zap.Int("tax_items", len(m.TaxItems)),
	)
	return s.Get(ctx, snowflake.ID(m.ID).String())
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := req.Pagination.Normalize()
	filter := domain.ListFilter{
		Search:     strings.TrimSpace(req.Search),
		InputGroup: strings.TrimSpace(req.InputGroup),
		SortBy:     strings.TrimSpace(req.SortBy),
		OrderBy:    strings.TrimSpace(req.OrderBy),
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
	if strings.TrimSpace(req.MeasurementUnit) != "" {
		unit, err := validateMeasurementUnit(req.MeasurementUnit)
		if err != nil {
			return nil, err
		}
		filter.MeasurementUnit = unit
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
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
	m, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(m)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	var materialID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.load(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		materialID = m.ID
		before := snapshot(m)

		if err := s.applyUpdate(ctx, tx, m, req); err != nil {
			return err
		}

		now := s.clock.Now()
		m.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, m); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrCodeConflict
			}
			return err
		}

		if req.TaxItems != nil {
			items, err := s.buildTaxItems(m.ID, *req.TaxItems, now)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceTaxItems(ctx, tx, m.ID, items); err != nil {
				return err
			}
		}

		logs := s.diff(ctx, m.ID, before, snapshot(m), now)
		if err := s.repo.InsertChangeLogs(ctx, tx, logs); err != nil {
			return err
		}
		if len(logs) > 0 {
			s.log.Info("raw material changed",
				zap.Int64("raw_material_id", m.ID),
				zap.Int("fields", len(logs)),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, snowflake.ID(materialID).String())
}

func (s *Service) applyUpdate(ctx context.Context, tx *gorm.DB, m *domain.RawMaterial, req domain.UpdateRequest) error {
	var err error
	if req.Code != nil {
		code, err := validateCode(*req.Code)
		if err != nil {
			return err
		}
		if code != m.Code {
			existing, err := s.repo.FindByCode(ctx, tx, code)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != m.ID {
				return domain.ErrCodeConflict
			}
		}
		m.Code = code
	}
	if req.Name != nil {
		if m.Name, err = validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if m.Description, err = optionalText(req.Description, 500, domain.ErrInvalidDescription); err != nil {
			return err
		}
	}
	if req.MeasurementUnit != nil {
		if m.MeasurementUnit, err = validateMeasurementUnit(*req.MeasurementUnit); err != nil {
			return err
		}
	}
	if req.InputGroup != nil {
		if m.InputGroup, err = optionalText(req.InputGroup, 60, domain.ErrInvalidInputGroup); err != nil {
			return err
		}
	}
	if req.PaymentTerm != nil {
		if err := validatePaymentTerm(*req.PaymentTerm); err != nil {
			return err
		}
		m.PaymentTerm = *req.PaymentTerm
	}

	repriced := false
	if req.AcquisitionPrice != nil {
		if !req.AcquisitionPrice.IsPositive() {
			return domain.ErrInvalidAcquisitionPrice
		}
		repriced = !req.AcquisitionPrice.Equal(m.AcquisitionPrice)
		m.AcquisitionPrice = *req.AcquisitionPrice
	}
	if req.Currency != nil {
		currency, err := validateCurrency(*req.Currency)
		if err != nil {
			return err
		}
		repriced = repriced || currency != m.Currency
		m.Currency = currency
	}
	switch {
	case req.PriceConvertedBRL != nil:
		if req.PriceConvertedBRL.IsNegative() {
			return domain.ErrInvalidConvertedPrice
		}
		m.PriceConvertedBRL = *req.PriceConvertedBRL
	case repriced:
		m.PriceConvertedBRL = s.convert(m.AcquisitionPrice, m.Currency)
	}

	if req.AdditionalCost != nil {
		if req.AdditionalCost.IsNegative() {
			return domain.ErrInvalidAdditionalCost
		}
		m.AdditionalCost = *req.AdditionalCost
	}
	if req.FreightID != nil {
		if m.FreightID, err = s.resolveFreight(ctx, tx, req.FreightID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		refs, err := s.repo.CountProducts(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrInUse
		}
		if err := s.repo.Delete(ctx, tx, m.ID); err != nil {
			return err
		}
		s.log.Info("raw material deleted", zap.Int64("raw_material_id", m.ID))
		return nil
	})
}

func (s *Service) ListChangeLogs(ctx context.Context, id string, page pagination.Pagination) (*domain.ChangeLogListResponse, error) {
	m, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	logs, total, err := s.repo.ListChangeLogs(ctx, s.db, m.ID, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	return &domain.ChangeLogListResponse{Items: toChangeLogResponses(logs), PageInfo: pagination.NewPageInfo(page, total)}, nil
}

// RecentChanges returns the latest edits across all raw materials.
func (s *Service) RecentChanges(ctx context.Context, limit int) ([]domain.ChangeLogResponse, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentChanges
	case limit > maxRecentChanges:
		limit = maxRecentChanges
	}
	logs, err := s.repo.RecentChangeLogs(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}
	return toChangeLogResponses(logs), nil
}

func toChangeLogResponses(logs []domain.ChangeLog) []domain.ChangeLogResponse {
	items := make([]domain.ChangeLogResponse, 0, len(logs))
	for _, entry := range logs {
		items = append(items, domain.ChangeLogResponse{
			ID:            snowflake.ID(entry.ID).String(),
			RawMaterialID: snowflake.ID(entry.RawMaterialID).String(),
			Field:         entry.Field,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			ChangedBy:     entry.ChangedBy,
			ChangedAt:     entry.ChangedAt,
		})
	}
	return items
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id string) (*domain.RawMaterial, error) {
	materialID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	m, err := s.repo.FindByID(ctx, db, materialID.Int64())
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// resolveFreight maps a blank id to no freight.
func (s *Service) resolveFreight(ctx context.Context, tx *gorm.DB, raw *string) (*int64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	freightID, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.ErrInvalidFreightID
	}
	ok, err := s.repo.FreightExists(ctx, tx, freightID.Int64())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrFreightNotFound
	}
	id := freightID.Int64()
	return &id, nil
}

// convert derives the BRL unit cost from the configured exchange rates.
// Without a rate it stays zero and pricing falls back to the acquisition price.
func (s *Service) convert(price decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := s.rates.Rate(currency)
	if !ok {
		s.log.Warn("no exchange rate configured", zap.String("currency", currency))
		return decimal.Zero
	}
	return price.Mul(rate).Round(convertedPlaces)
}

func (s *Service) buildTaxItems(materialID int64, reqs []domain.TaxItemRequest, now time.Time) ([]domain.TaxItem, error) {
	items := make([]domain.TaxItem, 0, len(reqs))
	for _, req := range reqs {
		name := strings.TrimSpace(req.Name)
		if name == "" || utf8.RuneCountInString(name) > 40 {
			return nil, domain.ErrInvalidTaxName
		}
		if req.Rate.LessThan(minTaxRate) || req.Rate.GreaterThan(hundred) || !req.Rate.Equal(req.Rate.Round(taxRatePlaces)) {
			return nil, domain.ErrInvalidTaxRate
		}
		items = append(items, domain.TaxItem{
			ID:            s.genID.Generate().Int64(),
			RawMaterialID: materialID,
			Name:          name,
			Rate:          req.Rate,
			Recoverable:   req.Recoverable,
			CreatedAt:     now,
		})
	}
	return items, nil
}

type trackedField struct {
	name  string
	value string
}

// snapshot renders the audited fields in a stable order.
func snapshot(m *domain.RawMaterial) []trackedField {
	freightID := ""
	if m.FreightID != nil {
		freightID = snowflake.ID(*m.FreightID).String()
	}
	return []trackedField{
		{"code", m.Code},
		{"name", m.Name},
		{"description", ptrToString(m.Description)},
		{"measurementUnit", m.MeasurementUnit},
		{"inputGroup", ptrToString(m.InputGroup)},
		{"paymentTerm", strconv.Itoa(m.PaymentTerm)},
		{"acquisitionPrice", m.AcquisitionPrice.String()},
		{"currency", m.Currency},
		{"priceConvertedBrl", m.PriceConvertedBRL.String()},
		{"additionalCost", m.AdditionalCost.String()},
		{"freightId", freightID},
	}
}

func (s *Service) diff(ctx context.Context, materialID int64, before, after []trackedField, now time.Time) []domain.ChangeLog {
	actor, _ := obsctx.ActorFromContext(ctx)
	if actor == "" {
		actor = systemActor
	}

	var logs []domain.ChangeLog
	for i := range before {
		if before[i].value == after[i].value {
			continue
		}
		logs = append(logs, domain.ChangeLog{
			ID:            s.genID.Generate().Int64(),
			RawMaterialID: materialID,
			Field:         before[i].name,
			OldValue:      before[i].value,
			NewValue:      after[i].value,
			ChangedBy:     actor,
			ChangedAt:     now,
		})
	}
	return logs
}

func validateCode(value string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(value))
	n := utf8.RuneCountInString(code)
	if n < 2 || n > 30 {
		return "", domain.ErrInvalidCode
	}
	return code, nil
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 100 {
		return "", domain.ErrInvalidName
	}
	return name, nil
}

func optionalText(value *string, max int, invalid error) (*string, error) {
	if value == nil {
		return nil, nil
	}
	text := strings.TrimSpace(*value)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > max {
		return nil, invalid
	}
	return &text, nil
}

func validateMeasurementUnit(value string) (string, error) {
	unit, ok := referencedomain.ParseMeasurementUnit(value)
	if !ok {
		return "", domain.ErrInvalidMeasurementUnit
	}
	return string(unit), nil
}

func validateCurrency(value string) (string, error) {
	c, ok := referencedomain.ParseCurrency(value)
	if !ok {
		return "", domain.ErrInvalidCurrency
	}
	return string(c), nil
}

func validatePaymentTerm(days int) error {
	if days < 0 || days > 365 {
		return domain.ErrInvalidPaymentTerm
	}
	return nil
}

func toResponse(m *domain.RawMaterial) domain.Response {
	resp := domain.Response{
		ID:                snowflake.ID(m.ID).String(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		MeasurementUnit:   m.MeasurementUnit,
		InputGroup:        m.InputGroup,
		PaymentTerm:       m.PaymentTerm,
		AcquisitionPrice:  m.AcquisitionPrice,
		Currency:          m.Currency,
		PriceConvertedBRL: m.PriceConvertedBRL,
		AdditionalCost:    m.AdditionalCost,
		TaxItems:          make([]domain.TaxItemResponse, 0, len(m.TaxItems)),
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.FreightID != nil {
		id := snowflake.ID(*m.FreightID).String()
		resp.FreightID = &id
	}
	if m.Freight != nil {
		resp.Freight = &domain.FreightSummary{
			ID:        snowflake.ID(m.Freight.ID).String(),
			Name:      m.Freight.Name,
			UnitPrice: m.Freight.UnitPrice,
			Currency:  m.Freight.Currency,
		}
	}
	for _, item := range m.TaxItems {
		resp.TaxItems = append(resp.TaxItems, domain.TaxItemResponse{
			ID:          snowflake.ID(item.ID).String(),
			Name:        item.Name,
			Rate:        item.Rate,
			Recoverable: item.Recoverable,
		})
	}
	return resp
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
