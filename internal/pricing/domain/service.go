package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Calculator prices a bill of materials.
type Calculator interface {
	Calculate(ctx context.Context, req CalculateRequest) (*Result, error)
}

// RawMaterialStore resolves materials with their tax items, freight and
// freight taxes loaded. Ids that do not exist are omitted from the result.
type RawMaterialStore interface {
	FindRawMaterialsByIDs(ctx context.Context, ids []snowflake.ID) ([]RawMaterialRecord, error)
}

// FixedCostStore returns nil, nil when the id does not exist.
type FixedCostStore interface {
	FindFixedCostByID(ctx context.Context, id snowflake.ID) (*FixedCostRecord, error)
}
