package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/InteliJR/pricehub/internal/observability/metrics"
	"github.com/InteliJR/pricehub/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MinQuantity is the smallest quantity accepted on a request line.
var MinQuantity = decimal.New(1, -3)

// QuantityPlaces is the stored scale of a bill-of-materials quantity.
const QuantityPlaces = 4

type Params struct {
	fx.In

	Log          *zap.Logger
	RawMaterials domain.RawMaterialStore
	FixedCosts   domain.FixedCostStore
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Calculator struct {
	log          *zap.Logger
	rawMaterials domain.RawMaterialStore
	fixedCosts   domain.FixedCostStore
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Calculator {
	return &Calculator{
		log:          p.Log.Named("pricing.service"),
		rawMaterials: p.RawMaterials,
		fixedCosts:   p.FixedCosts,
		metrics:      p.Metrics,
	}
}

type parsedRequest struct {
	ids         []snowflake.ID
	quantities  []decimal.Decimal
	fixedCostID *snowflake.ID
}

func (c *Calculator) Calculate(ctx context.Context, req domain.CalculateRequest) (*domain.Result, error) {
	ctx, span := otel.Tracer("pricehub/pricing").Start(ctx, "pricing.calculate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("pricing.lines", len(req.RawMaterials)),
		attribute.Bool("pricing.has_fixed_cost", req.FixedCostID != nil),
	)

	start := time.Now()
	result, err := c.calculate(ctx, req)
	if err != nil {
		reason := failureReason(err)
		c.metrics.RecordPriceCalculationFailure(ctx, reason)
		if reason == "internal" {
			span.SetStatus(codes.Error, "calculation failed")
			c.log.Error("price calculation failed", zap.Error(err))
		}
		return nil, err
	}

	c.metrics.RecordPriceCalculation(ctx, len(result.Breakdown), time.Since(start))
	return result, nil
}

func (c *Calculator) calculate(ctx context.Context, req domain.CalculateRequest) (*domain.Result, error) {
	parsed, err := parseRequest(req)
	if err != nil {
		return nil, err
	}

	records, fixedCost, err := c.fetch(ctx, parsed)
	if err != nil {
		return nil, err
	}

	byID := make(map[snowflake.ID]domain.RawMaterialRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	items := make([]Item, 0, len(parsed.ids))
	for i, id := range parsed.ids {
		record, ok := byID[id]
		if !ok {
			return nil, domain.ErrRawMaterialNotFound
		}
		items = append(items, Item{Material: record, Quantity: parsed.quantities[i]})
	}
	if parsed.fixedCostID != nil && fixedCost == nil {
		return nil, domain.ErrFixedCostNotFound
	}

	result := Compute(items, fixedCost)
	return &result, nil
}

// fetch issues the material batch read and the fixed cost read concurrently.
func (c *Calculator) fetch(ctx context.Context, parsed parsedRequest) ([]domain.RawMaterialRecord, *domain.FixedCostRecord, error) {
	var (
		records   []domain.RawMaterialRecord
		fixedCost *domain.FixedCostRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = c.rawMaterials.FindRawMaterialsByIDs(gctx, parsed.ids)
		if err != nil {
			return fmt.Errorf("find raw materials: %w", err)
		}
		return nil
	})
	if parsed.fixedCostID != nil {
		id := *parsed.fixedCostID
		g.Go(func() error {
			var err error
			fixedCost, err = c.fixedCosts.FindFixedCostByID(gctx, id)
			if err != nil {
				return fmt.Errorf("find fixed cost: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, fixedCost, nil
}

// parseRequest validates every line before anything is read.
func parseRequest(req domain.CalculateRequest) (parsedRequest, error) {
	if len(req.RawMaterials) == 0 {
		return parsedRequest{}, domain.ErrInvalidRawMaterials
	}

	parsed := parsedRequest{
		ids:        make([]snowflake.ID, 0, len(req.RawMaterials)),
		quantities: make([]decimal.Decimal, 0, len(req.RawMaterials)),
	}
	seen := make(map[snowflake.ID]struct{}, len(req.RawMaterials))
	for i, line := range req.RawMaterials {
		id, err := snowflake.ParseString(strings.TrimSpace(line.RawMaterialID))
		if err != nil || id <= 0 {
			return parsedRequest{}, &domain.LineError{Index: i, Err: domain.ErrInvalidRawMaterialID}
		}
		if line.Quantity.LessThan(MinQuantity) || !line.Quantity.Equal(line.Quantity.Round(QuantityPlaces)) {
			return parsedRequest{}, &domain.LineError{Index: i, Err: domain.ErrInvalidQuantity}
		}
		if _, dup := seen[id]; dup {
			return parsedRequest{}, &domain.LineError{Index: i, Err: domain.ErrDuplicateRawMaterial}
		}
		seen[id] = struct{}{}
		parsed.ids = append(parsed.ids, id)
		parsed.quantities = append(parsed.quantities, line.Quantity)
	}

	if req.FixedCostID != nil {
		if raw := strings.TrimSpace(*req.FixedCostID); raw != "" {
			id, err := snowflake.ParseString(raw)
			if err != nil || id <= 0 {
				return parsedRequest{}, domain.ErrInvalidFixedCostID
			}
			parsed.fixedCostID = &id
		}
	}
	return parsed, nil
}

func failureReason(err error) string {
	switch {
	case domain.IsValidationError(err):
		return "validation"
	case domain.IsNotFoundError(err):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
