package storage

import (
	"context"

	"retail-price-lab/internal/domain"
)

// PriceHistoryStore provides access to the append-only historical price
// table, conceptually keyed by (product_id, date). The store is the sole
// owner of the one-row-per-(product,day) invariant: days are only ever
// written through ReplaceDay, records for past days are never deleted.
//
// Concurrent runs against the same store are out of scope and must be
// serialized by the caller.
type PriceHistoryStore interface {
	// ReplaceDay removes any existing records for date, then appends the
	// given records. Merging the same snapshot twice yields the same table
	// as merging once; records for other dates are never touched.
	ReplaceDay(ctx context.Context, date string, records []*domain.PriceRecord) error

	// GetByDate retrieves all records for one date, in stable store order.
	GetByDate(ctx context.Context, date string) ([]*domain.PriceRecord, error)

	// GetAll retrieves the whole table ordered by date ascending, with a
	// stable order within each date.
	GetAll(ctx context.Context) ([]*domain.PriceRecord, error)

	// Dates retrieves the distinct dates present, sorted ascending.
	Dates(ctx context.Context) ([]string, error)
}
