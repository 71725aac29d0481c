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
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type TaxRequest struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

type CreateRequest struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Currency        string          `json:"currency"`
	OriginUF        string          `json:"originUf"`
	OriginCity      string          `json:"originCity"`
	DestinationUF   string          `json:"destinationUf"`
	DestinationCity string          `json:"destinationCity"`
	CargoType       string          `json:"cargoType"`
	OperationType   string          `json:"operationType"`
	FreightTaxes    []TaxRequest    `json:"freightTaxes"`
}

// UpdateRequest replaces the freight taxes only when FreightTaxes is non-nil.
type UpdateRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	Currency        *string          `json:"currency"`
	OriginUF        *string          `json:"originUf"`
	OriginCity      *string          `json:"originCity"`
	DestinationUF   *string          `json:"destinationUf"`
	DestinationCity *string          `json:"destinationCity"`
	CargoType       *string          `json:"cargoType"`
	OperationType   *string          `json:"operationType"`
	FreightTaxes    *[]TaxRequest    `json:"freightTaxes"`
}

type ListRequest struct {
	Search        string
	Currency      string
	OperationType string
	SortBy        string
	OrderBy       string
	pagination.Pagination
}

type TaxResponse struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

type Response struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Currency        string          `json:"currency"`
	OriginUF        string          `json:"originUf"`
	OriginCity      string          `json:"originCity"`
	DestinationUF   string          `json:"destinationUf"`
	DestinationCity string          `json:"destinationCity"`
	CargoType       string          `json:"cargoType"`
	OperationType   string          `json:"operationType"`
	FreightTaxes    []TaxResponse   `json:"freightTaxes"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"meta"`
}

type CurrencyCount struct {
	Currency string `json:"currency"`
	Count    int64  `json:"count"`
}

type OperationTypeCount struct {
	OperationType string `json:"operationType"`
	Count         int64  `json:"count"`
}

// PriceStatistics fields are null when no freight exists.
type PriceStatistics struct {
	Average *decimal.Decimal `json:"average"`
	Min     *decimal.Decimal `json:"min"`
	Max     *decimal.Decimal `json:"max"`
}

type Statistics struct {
	Total           int64                `json:"total"`
	ByCurrency      []CurrencyCount      `json:"byCurrency"`
	ByOperationType []OperationTypeCount `json:"byOperationType"`
	Prices          PriceStatistics      `json:"prices"`
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidDescription   = errors.New("invalid_description")
	ErrInvalidUnitPrice     = errors.New("invalid_unit_price")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidOriginUF      = errors.New("invalid_origin_uf")
	ErrInvalidOriginCity    = errors.New("invalid_origin_city")
	ErrInvalidDestinationUF = errors.New("invalid_destination_uf")
	ErrInvalidDestCity      = errors.New("invalid_destination_city")
	ErrInvalidCargoType     = errors.New("invalid_cargo_type")
	ErrInvalidOperationType = errors.New("invalid_operation_type")
	ErrInvalidTaxName       = errors.New("invalid_tax_name")
	ErrInvalidTaxRate       = errors.New("invalid_tax_rate")
	ErrNotFound             = errors.New("not_found")
	ErrInUse                = errors.New("freight_in_use")
)
