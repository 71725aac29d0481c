package domain

import (
	"context"
	"errors"
	"time"

	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) (*DeleteResponse, error)
	CalculateOverhead(ctx context.Context, req CalculateOverheadRequest) (*CalculateOverheadResponse, error)
}

type CreateRequest struct {
	Code                    *string          `json:"code"`
	Description             string           `json:"description"`
	PersonnelExpenses       decimal.Decimal  `json:"personnelExpenses"`
	GeneralExpenses         decimal.Decimal  `json:"generalExpenses"`
	ProLabore               decimal.Decimal  `json:"proLabore"`
	Depreciation            *decimal.Decimal `json:"depreciation"`
	ConsiderationPercentage *decimal.Decimal `json:"considerationPercentage"`
	SalesVolume             decimal.Decimal  `json:"salesVolume"`
}

type UpdateRequest struct {
	ID                      string           `json:"-"`
	Code                    *string          `json:"code"`
	Description             *string          `json:"description"`
	PersonnelExpenses       *decimal.Decimal `json:"personnelExpenses"`
	GeneralExpenses         *decimal.Decimal `json:"generalExpenses"`
	ProLabore               *decimal.Decimal `json:"proLabore"`
	Depreciation            *decimal.Decimal `json:"depreciation"`
	ConsiderationPercentage *decimal.Decimal `json:"considerationPercentage"`
	SalesVolume             *decimal.Decimal `json:"salesVolume"`
}

type ListRequest struct {
	Search  string
	SortBy  string
	OrderBy string
	pagination.Pagination
}

type Response struct {
	ID                      string          `json:"id"`
	Code                    *string         `json:"code,omitempty"`
	Description             string          `json:"description"`
	PersonnelExpenses       decimal.Decimal `json:"personnelExpenses"`
	GeneralExpenses         decimal.Decimal `json:"generalExpenses"`
	ProLabore               decimal.Decimal `json:"proLabore"`
	Depreciation            decimal.Decimal `json:"depreciation"`
	ConsiderationPercentage decimal.Decimal `json:"considerationPercentage"`
	SalesVolume             decimal.Decimal `json:"salesVolume"`
	TotalCost               decimal.Decimal `json:"totalCost"`
	OverheadPerUnit         decimal.Decimal `json:"overheadPerUnit"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"meta"`
}

// DetachAction describes what Delete does to referencing products.
const DetachAction = "fixedCostId set to null"

type DeleteResponse struct {
	AffectedProducts AffectedProducts `json:"affectedProducts"`
}

type AffectedProducts struct {
	Count  int64  `json:"count"`
	Action string `json:"action"`
}

// CalculateOverheadRequest targets ProductIDs when given, otherwise every
// product already linked to the fixed cost.
type CalculateOverheadRequest struct {
	ID              string   `json:"-"`
	ApplyToProducts bool     `json:"applyToProducts"`
	ProductIDs      []string `json:"productIds"`
}

type OverheadFixedCost struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	OverheadPerUnit decimal.Decimal `json:"overheadPerUnit"`
}

type OverheadProduct struct {
	ID                  string          `json:"id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	PriceBeforeOverhead decimal.Decimal `json:"priceBeforeOverhead"`
	OverheadApplied     decimal.Decimal `json:"overheadApplied"`
	PriceAfterOverhead  decimal.Decimal `json:"priceAfterOverhead"`
	Updated             bool            `json:"updated"`
}

type OverheadSummary struct {
	TotalProductsAffected    int             `json:"totalProductsAffected"`
	TotalOverheadDistributed decimal.Decimal `json:"totalOverheadDistributed"`
	Applied                  bool            `json:"applied"`
}

type CalculateOverheadResponse struct {
	FixedCost        OverheadFixedCost `json:"fixedCost"`
	AffectedProducts []OverheadProduct `json:"affectedProducts"`
	Summary          OverheadSummary   `json:"summary"`
}

var (
	ErrInvalidID                      = errors.New("invalid_id")
	ErrInvalidCode                    = errors.New("invalid_code")
	ErrInvalidDescription             = errors.New("invalid_description")
	ErrInvalidExpense                 = errors.New("invalid_expense")
	ErrInvalidConsiderationPercentage = errors.New("invalid_consideration_percentage")
	ErrInvalidSalesVolume             = errors.New("invalid_sales_volume")
	ErrCodeConflict                   = errors.New("code_conflict")
	ErrNotFound                       = errors.New("not_found")
	ErrInvalidProductIDs              = errors.New("invalid_product_ids")
)
