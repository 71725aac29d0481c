package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/InteliJR/pricehub/internal/clock"
	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	pricingdomain "github.com/InteliJR/pricehub/internal/pricing/domain"
	"github.com/InteliJR/pricehub/internal/product/domain"
	"github.com/InteliJR/pricehub/pkg/db"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxCodeLength = 30
	maxNameLength = 255
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Calculator pricingdomain.Calculator
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	calculator pricingdomain.Calculator
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("product.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		calculator: p.Calculator,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	code, err := validateCode(req.Code)
	if err != nil {
		return nil, err
	}
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCodeConflict
	}
	groupID, err := s.resolveProductGroup(ctx, s.db, req.ProductGroupID)
	if err != nil {
		return nil, err
	}

	calcReq := pricingdomain.CalculateRequest{
		RawMaterials: req.RawMaterials,
		FixedCostID:  normalizeFixedCostID(req.FixedCostID),
	}
	result, err := s.calculator.Calculate(ctx, calcReq)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:                          s.genID.Generate().Int64(),
		Code:                        code,
		Name:                        name,
		Description:                 optionalText(req.Description),
		FixedCostID:                 parseFixedCostID(calcReq.FixedCostID),
		ProductGroupID:              groupID,
		PriceWithoutTaxesAndFreight: result.Summary.PriceWithoutTaxesAndFreight.Decimal,
		PriceWithTaxesAndFreight:    result.Summary.PriceWithTaxesAndFreight.Decimal,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
	p.RawMaterials = billOfMaterials(p.ID, calcReq.RawMaterials)
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if actor, _ := obsctx.ActorFromContext(ctx); actor != "" {
		p.CreatedBy = &actor
	}

	if err := s.repo.Create(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeConflict
		}
		return nil, err
	}

	s.log.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.String("code", p.Code),
		zap.String("price_with_taxes_and_freight", result.Summary.PriceWithTaxesAndFreight.StringFixed(2)),
	)

	resp := toResponse(p)
	resp.Calculation = result
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
	if groupID := strings.TrimSpace(req.ProductGroupID); groupID != "" {
		parsed, err := snowflake.ParseString(groupID)
		if err != nil {
			return nil, domain.ErrInvalidProductGroupID
		}
		value := parsed.Int64()
		filter.ProductGroupID = &value
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

// Get recalculates from current data when asked; nothing is persisted.
func (s *Service) Get(ctx context.Context, req domain.GetRequest) (*domain.Response, error) {
	p, err := s.load(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(p)
	if req.IncludeCalculations {
		result, err := s.calculator.Calculate(ctx, storedRequest(p))
		if err != nil {
			return nil, err
		}
		resp.Calculation = result
	}
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	p, err := s.load(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code, err := validateCode(*req.Code)
		if err != nil {
			return nil, err
		}
		if code != p.Code {
			existing, err := s.repo.FindByCode(ctx, s.db, code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != p.ID {
				return nil, domain.ErrCodeConflict
			}
		}
		p.Code = code
	}
	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = optionalText(req.Description)
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if req.ProductGroupID != nil {
		groupID, err := s.resolveProductGroup(ctx, s.db, req.ProductGroupID)
		if err != nil {
			return nil, err
		}
		p.ProductGroupID = groupID
	}

	var result *pricingdomain.Result
	recalculate := req.RawMaterials != nil || req.FixedCostID != nil
	if recalculate {
		calcReq := storedRequest(p)
		if req.RawMaterials != nil {
			calcReq.RawMaterials = *req.RawMaterials
		}
		if req.FixedCostID != nil {
			calcReq.FixedCostID = normalizeFixedCostID(req.FixedCostID)
		}

		result, err = s.calculator.Calculate(ctx, calcReq)
		if err != nil {
			return nil, err
		}
		p.FixedCostID = parseFixedCostID(calcReq.FixedCostID)
		p.PriceWithoutTaxesAndFreight = result.Summary.PriceWithoutTaxesAndFreight.Decimal
		p.PriceWithTaxesAndFreight = result.Summary.PriceWithTaxesAndFreight.Decimal
		if req.RawMaterials != nil {
			p.RawMaterials = billOfMaterials(p.ID, calcReq.RawMaterials)
		}
	}

	p.UpdatedAt = s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}
		if req.RawMaterials != nil {
			return s.repo.ReplaceRawMaterials(ctx, tx, p.ID, p.RawMaterials)
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeConflict
		}
		return nil, err
	}

	if recalculate {
		s.log.Info("product repriced",
			zap.Int64("product_id", p.ID),
			zap.String("price_with_taxes_and_freight", result.Summary.PriceWithTaxesAndFreight.StringFixed(2)),
		)
	}

	resp := toResponse(p)
	resp.Calculation = result
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, p.ID); err != nil {
			return err
		}
		s.log.Info("product deleted", zap.Int64("product_id", p.ID))
		return nil
	})
}

func (s *Service) Simulate(ctx context.Context, req pricingdomain.CalculateRequest) (*pricingdomain.Result, error) {
	req.FixedCostID = normalizeFixedCostID(req.FixedCostID)
	return s.calculator.Calculate(ctx, req)
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	p, err := s.repo.FindByID(ctx, db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// resolveProductGroup maps a blank id to no group.
func (s *Service) resolveProductGroup(ctx context.Context, db *gorm.DB, raw *string) (*int64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	groupID, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.ErrInvalidProductGroupID
	}
	ok, err := s.repo.ProductGroupExists(ctx, db, groupID.Int64())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrProductGroupNotFound
	}
	value := groupID.Int64()
	return &value, nil
}

// storedRequest rebuilds the calculation input from a persisted product.
func storedRequest(p *domain.Product) pricingdomain.CalculateRequest {
	req := pricingdomain.CalculateRequest{
		RawMaterials: make([]pricingdomain.RawMaterialInput, 0, len(p.RawMaterials)),
	}
	for _, line := range p.RawMaterials {
		req.RawMaterials = append(req.RawMaterials, pricingdomain.RawMaterialInput{
			RawMaterialID: snowflake.ID(line.RawMaterialID).String(),
			Quantity:      line.Quantity,
		})
	}
	if p.FixedCostID != nil {
		id := snowflake.ID(*p.FixedCostID).String()
		req.FixedCostID = &id
	}
	return req
}

// billOfMaterials expects inputs already accepted by the calculator.
func billOfMaterials(productID int64, inputs []pricingdomain.RawMaterialInput) []domain.ProductRawMaterial {
	lines := make([]domain.ProductRawMaterial, 0, len(inputs))
	for i, in := range inputs {
		id, err := snowflake.ParseString(strings.TrimSpace(in.RawMaterialID))
		if err != nil {
			continue
		}
		lines = append(lines, domain.ProductRawMaterial{
			ProductID:     productID,
			RawMaterialID: id.Int64(),
			Position:      i,
			Quantity:      in.Quantity,
		})
	}
	return lines
}

// normalizeFixedCostID treats a blank id as no fixed cost.
func normalizeFixedCostID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseFixedCostID(id *string) *int64 {
	if id == nil {
		return nil
	}
	parsed, err := snowflake.ParseString(*id)
	if err != nil {
		return nil
	}
	value := parsed.Int64()
	return &value
}

func validateCode(value string) (string, error) {
	code := strings.TrimSpace(value)
	if code == "" || len(code) > maxCodeLength {
		return "", domain.ErrInvalidCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", domain.ErrInvalidCode
		}
	}
	return code, nil
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", domain.ErrInvalidName
	}
	return name, nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	text := strings.TrimSpace(*value)
	if text == "" {
		return nil
	}
	return &text
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:                          snowflake.ID(p.ID).String(),
		Code:                        p.Code,
		Name:                        p.Name,
		Description:                 p.Description,
		CreatedBy:                   p.CreatedBy,
		PriceWithoutTaxesAndFreight: p.PriceWithoutTaxesAndFreight,
		PriceWithTaxesAndFreight:    p.PriceWithTaxesAndFreight,
		RawMaterials:                make([]domain.RawMaterialLine, 0, len(p.RawMaterials)),
		CreatedAt:                   p.CreatedAt,
		UpdatedAt:                   p.UpdatedAt,
	}
	if p.FixedCostID != nil {
		id := snowflake.ID(*p.FixedCostID).String()
		resp.FixedCostID = &id
	}
	if p.ProductGroupID != nil {
		id := snowflake.ID(*p.ProductGroupID).String()
		resp.ProductGroupID = &id
	}
	for _, line := range p.RawMaterials {
		resp.RawMaterials = append(resp.RawMaterials, domain.RawMaterialLine{
			RawMaterialID: snowflake.ID(line.RawMaterialID).String(),
			Quantity:      line.Quantity,
		})
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}
