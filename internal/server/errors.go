package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/InteliJR/pricehub/internal/authorization"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	pricingdomain "github.com/InteliJR/pricehub/internal/pricing/domain"
	productdomain "github.com/InteliJR/pricehub/internal/product/domain"
	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	// Engine failures that point at a specific bill-of-materials line.
	var lineErr *pricingdomain.LineError
	if errors.As(err, &lineErr) && pricingdomain.IsValidationError(lineErr.Err) {
		code := validationErrorCode(lineErr.Err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   fmt.Sprintf("rawMaterials[%d].%s", lineErr.Index, validationErrorField(code)),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidRole):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		code := conflictErrorCode(err)
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictErrorMessage(code),
			Errors: []ValidationError{
				{
					Field:   conflictErrorField(code),
					Code:    code,
					Message: conflictErrorMessage(code),
				},
			},
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFoundMessage(err),
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case pricingdomain.IsValidationError(err),
		isProductValidationError(err),
		isRawMaterialValidationError(err),
		isFreightValidationError(err),
		isFixedCostValidationError(err),
		isProductGroupValidationError(err):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, productdomain.ErrCodeConflict),
		errors.Is(err, rawmaterialdomain.ErrCodeConflict),
		errors.Is(err, fixedcostdomain.ErrCodeConflict),
		errors.Is(err, productgroupdomain.ErrNameConflict),
		errors.Is(err, rawmaterialdomain.ErrInUse),
		errors.Is(err, freightdomain.ErrInUse):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, rawmaterialdomain.ErrNotFound),
		errors.Is(err, rawmaterialdomain.ErrFreightNotFound),
		errors.Is(err, freightdomain.ErrNotFound),
		errors.Is(err, fixedcostdomain.ErrNotFound),
		errors.Is(err, productgroupdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrProductGroupNotFound),
		pricingdomain.IsNotFoundError(err),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	var lineErr *pricingdomain.LineError
	if errors.As(err, &lineErr) {
		err = lineErr.Err
	}
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

// validationErrorField turns an error code into the camelCase request field
// it refers to.
func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "raw_material_not_found", "duplicate_raw_material", "invalid_raw_material_id":
		return "rawMaterialId"
	}
	if strings.HasPrefix(code, "invalid_") {
		return camelCase(strings.TrimPrefix(code, "invalid_"))
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "raw_material_not_found":
		return "raw material not found"
	case "duplicate_raw_material":
		return "raw material listed more than once"
	case "invalid_raw_materials":
		return "at least one raw material is required"
	case "invalid_quantity":
		return "quantity must be at least 0.001 with at most 4 decimal places"
	default:
		return "invalid value"
	}
}

func conflictErrorCode(err error) string {
	for _, known := range []error{
		productdomain.ErrCodeConflict,
		rawmaterialdomain.ErrCodeConflict,
		fixedcostdomain.ErrCodeConflict,
		productgroupdomain.ErrNameConflict,
		rawmaterialdomain.ErrInUse,
		freightdomain.ErrInUse,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "conflict"
}

func conflictErrorField(code string) string {
	switch code {
	case "code_conflict":
		return "code"
	case "name_conflict":
		return "name"
	default:
		return "id"
	}
}

func conflictErrorMessage(code string) string {
	switch code {
	case "code_conflict":
		return "code already in use"
	case "raw_material_in_use":
		return "raw material is used by products"
	case "freight_in_use":
		return "freight is used by raw materials"
	case "name_conflict":
		return "name already in use"
	default:
		return "conflict"
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, rawmaterialdomain.ErrFreightNotFound):
		return "freight not found"
	case errors.Is(err, productdomain.ErrProductGroupNotFound):
		return "product group not found"
	case pricingdomain.IsNotFoundError(err):
		return "fixed cost not found"
	default:
		return "not found"
	}
}

func camelCase(snake string) string {
	parts := strings.Split(snake, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
