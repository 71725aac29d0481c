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
	ListChangeLogs(ctx context.Context, id string, page pagination.Pagination) (*ChangeLogListResponse, error)
	RecentChanges(ctx context.Context, limit int) ([]ChangeLogResponse, error)
}

type TaxItemRequest struct {
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	Recoverable bool            `json:"recoverable"`
}

type CreateRequest struct {
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Description       *string          `json:"description"`
	MeasurementUnit   string           `json:"measurementUnit"`
	InputGroup        *string          `json:"inputGroup"`
	PaymentTerm       int              `json:"paymentTerm"`
	AcquisitionPrice  decimal.Decimal  `json:"acquisitionPrice"`
	Currency          string           `json:"currency"`
	PriceConvertedBRL *decimal.Decimal `json:"priceConvertedBrl"`
	AdditionalCost    decimal.Decimal  `json:"additionalCost"`
	FreightID         *string          `json:"freightId"`
	TaxItems          []TaxItemRequest `json:"taxItems"`
}

// UpdateRequest is partial. An empty FreightID detaches the freight; a
// non-nil TaxItems replaces every tax item.
type UpdateRequest struct {
	ID                string            `json:"-"`
	Code              *string           `json:"code"`
	Name              *string           `json:"name"`
	Description       *string           `json:"description"`
	MeasurementUnit   *string           `json:"measurementUnit"`
	InputGroup        *string           `json:"inputGroup"`
	PaymentTerm       *int              `json:"paymentTerm"`
	AcquisitionPrice  *decimal.Decimal  `json:"acquisitionPrice"`
	Currency          *string           `json:"currency"`
	PriceConvertedBRL *decimal.Decimal  `json:"priceConvertedBrl"`
	AdditionalCost    *decimal.Decimal  `json:"additionalCost"`
	FreightID         *string           `json:"freightId"`
	TaxItems          *[]TaxItemRequest `json:"taxItems"`
}

type ListRequest struct {
	Search          string
	MeasurementUnit string
	InputGroup      string
	SortBy          string
	OrderBy         string
	pagination.Pagination
}

type TaxItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	Recoverable bool            `json:"recoverable"`
}

type FreightSummary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
}

type Response struct {
	ID                string            `json:"id"`
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	Description       *string           `json:"description,omitempty"`
	MeasurementUnit   string            `json:"measurementUnit"`
	InputGroup        *string           `json:"inputGroup,omitempty"`
	PaymentTerm       int               `json:"paymentTerm"`
	AcquisitionPrice  decimal.Decimal   `json:"acquisitionPrice"`
	Currency          string            `json:"currency"`
	PriceConvertedBRL decimal.Decimal   `json:"priceConvertedBrl"`
	AdditionalCost    decimal.Decimal   `json:"additionalCost"`
	FreightID         *string           `json:"freightId,omitempty"`
	Freight           *FreightSummary   `json:"freight,omitempty"`
	TaxItems          []TaxItemResponse `json:"taxItems"`
	CreatedBy         *string           `json:"createdBy,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"meta"`
}

type ChangeLogResponse struct {
	ID            string    `json:"id"`
	RawMaterialID string    `json:"rawMaterialId"`
	Field         string    `json:"field"`
	OldValue      string    `json:"oldValue"`
	NewValue      string    `json:"newValue"`
	ChangedBy     string    `json:"changedBy"`
	ChangedAt     time.Time `json:"changedAt"`
}

type ChangeLogListResponse struct {
	Items    []ChangeLogResponse `json:"items"`
	PageInfo pagination.PageInfo `json:"meta"`
}

var (
	ErrInvalidID               = errors.New("invalid_id")
	ErrInvalidCode             = errors.New("invalid_code")
	ErrInvalidName             = errors.New("invalid_name")
	ErrInvalidDescription      = errors.New("invalid_description")
	ErrInvalidMeasurementUnit  = errors.New("invalid_measurement_unit")
	ErrInvalidInputGroup       = errors.New("invalid_input_group")
	ErrInvalidPaymentTerm      = errors.New("invalid_payment_term")
	ErrInvalidAcquisitionPrice = errors.New("invalid_acquisition_price")
	ErrInvalidCurrency         = errors.New("invalid_currency")
	ErrInvalidConvertedPrice   = errors.New("invalid_price_converted_brl")
	ErrInvalidAdditionalCost   = errors.New("invalid_additional_cost")
	ErrInvalidFreightID        = errors.New("invalid_freight_id")
	ErrFreightNotFound         = errors.New("freight_not_found")
	ErrInvalidTaxName          = errors.New("invalid_tax_name")
	ErrInvalidTaxRate          = errors.New("invalid_tax_rate")
	ErrCodeConflict            = errors.New("code_conflict")
	ErrNotFound                = errors.New("not_found")
	ErrInUse                   = errors.New("raw_material_in_use")
)
