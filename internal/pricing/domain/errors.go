package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRawMaterials  = errors.New("invalid_raw_materials")
	ErrInvalidRawMaterialID = errors.New("invalid_raw_material_id")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrDuplicateRawMaterial = errors.New("duplicate_raw_material")
	ErrRawMaterialNotFound  = errors.New("raw_material_not_found")
	ErrInvalidFixedCostID   = errors.New("invalid_fixed_cost_id")
	ErrFixedCostNotFound    = errors.New("fixed_cost_not_found")
)

// LineError ties a validation failure to a request line.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("rawMaterials[%d]: %s", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// IsValidationError reports malformed or unresolvable calculation input.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRawMaterials),
		errors.Is(err, ErrInvalidRawMaterialID),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrDuplicateRawMaterial),
		errors.Is(err, ErrRawMaterialNotFound),
		errors.Is(err, ErrInvalidFixedCostID):
		return true
	default:
		return false
	}
}

// IsNotFoundError reports a fixed cost reference that does not resolve.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFixedCostNotFound)
}
