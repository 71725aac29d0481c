package domain

import (
	"context"
	"errors"
	"time"

	pricingdomain "github.com/InteliJR/pricehub/internal/pricing/domain"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, req GetRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Simulate(ctx context.Context, req pricingdomain.CalculateRequest) (*pricingdomain.Result, error)
}

type CreateRequest struct {
	Code         string                           `json:"code"`
	Name         string                           `json:"name"`
	Description  *string                          `json:"description"`
	FixedCostID    *string                          `json:"fixedCostId"`
	ProductGroupID *string                          `json:"productGroupId"`
	RawMaterials   []pricingdomain.RawMaterialInput `json:"rawMaterials"`
	Metadata       map[string]any                   `json:"metadata"`
}

// UpdateRequest is partial. An empty FixedCostID or ProductGroupID detaches it.
// Prices are recalculated when RawMaterials or FixedCostID is present.
type UpdateRequest struct {
	ID           string                            `json:"-"`
	Code         *string                           `json:"code"`
	Name         *string                           `json:"name"`
	Description  *string                           `json:"description"`
	FixedCostID    *string                           `json:"fixedCostId"`
	ProductGroupID *string                           `json:"productGroupId"`
	RawMaterials   *[]pricingdomain.RawMaterialInput `json:"rawMaterials"`
	Metadata       map[string]any                    `json:"metadata"`
}

type GetRequest struct {
	ID                  string
	IncludeCalculations bool
}

type ListRequest struct {
	Search         string
	ProductGroupID string
	SortBy         string
	OrderBy        string
	pagination.Pagination
}

type RawMaterialLine struct {
	RawMaterialID string          `json:"rawMaterialId"`
	Quantity      decimal.Decimal `json:"quantity"`
}

type Response struct {
	ID                          string                `json:"id"`
	Code                        string                `json:"code"`
	Name                        string                `json:"name"`
	Description                 *string               `json:"description,omitempty"`
	FixedCostID                 *string               `json:"fixedCostId,omitempty"`
	ProductGroupID              *string               `json:"productGroupId,omitempty"`
	CreatedBy                   *string               `json:"createdBy,omitempty"`
	PriceWithoutTaxesAndFreight decimal.Decimal       `json:"priceWithoutTaxesAndFreight"`
	PriceWithTaxesAndFreight    decimal.Decimal       `json:"priceWithTaxesAndFreight"`
	RawMaterials                []RawMaterialLine     `json:"rawMaterials"`
	Metadata                    map[string]any        `json:"metadata,omitempty"`
	CreatedAt                   time.Time             `json:"createdAt"`
	UpdatedAt                   time.Time             `json:"updatedAt"`
	Calculation                 *pricingdomain.Result `json:"calculation,omitempty"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"meta"`
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidCode  = errors.New("invalid_code")
	ErrInvalidName  = errors.New("invalid_name")
	ErrCodeConflict = errors.New("code_conflict")
	ErrNotFound     = errors.New("not_found")

	ErrInvalidProductGroupID = errors.New("invalid_product_group_id")
	ErrProductGroupNotFound  = errors.New("product_group_not_found")
)
