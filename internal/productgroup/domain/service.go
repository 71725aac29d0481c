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
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateRequest is partial; an empty Description clears it.
type UpdateRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ListRequest struct {
	Search  string
	SortBy  string
	OrderBy string
	pagination.Pagination
}

type Response struct {
	ID                         string          `json:"id"`
	Name                       string          `json:"name"`
	Description                *string         `json:"description,omitempty"`
	ProductsCount              int64           `json:"productsCount"`
	VolumePercentageByQuantity decimal.Decimal `json:"volumePercentageByQuantity"`
	VolumePercentageByValue    decimal.Decimal `json:"volumePercentageByValue"`
	AveragePrice               decimal.Decimal `json:"averagePrice"`
	CreatedAt                  time.Time       `json:"createdAt"`
	UpdatedAt                  time.Time       `json:"updatedAt"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"meta"`
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrNameConflict       = errors.New("name_conflict")
	ErrNotFound           = errors.New("not_found")
)
