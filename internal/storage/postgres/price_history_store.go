package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using PostgreSQL.
// The UNIQUE (product_id, date) constraint backs the one-row-per-(product,day)
// invariant at the schema level.
type PriceHistoryStore struct {
	pool *Pool
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(pool *Pool) *PriceHistoryStore {
	return &PriceHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// ReplaceDay deletes the date's rows and inserts the given records in one
// transaction, so readers never observe a half-replaced day.
func (s *PriceHistoryStore) ReplaceDay(ctx context.Context, date string, records []*domain.PriceRecord) error {
	day, err := parseDay(date)
	if err != nil {
		return storage.ErrInvalidInput
	}
	for _, r := range records {
		if r == nil || r.ProductID == "" || r.Date != date {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM price_history WHERE date = $1`, day); err != nil {
		return fmt.Errorf("delete day %s: %w", date, err)
	}

	query := `
		INSERT INTO price_history (
			product_id, name, brand, category, top_category,
			current_price, list_price, date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			r.ProductID, r.Name, r.Brand, r.Category, r.TopCategory,
			r.CurrentPrice, r.ListPrice, day,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				// Duplicate product within one snapshot; the normalizer is
				// expected to have deduplicated already.
				return storage.ErrInvalidInput
			}
			return fmt.Errorf("insert price record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByDate retrieves all records for one date in insertion order.
func (s *PriceHistoryStore) GetByDate(ctx context.Context, date string) ([]*domain.PriceRecord, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT product_id, name, brand, category, top_category,
		       current_price, list_price, date
		FROM price_history
		WHERE date = $1
		ORDER BY id ASC
	`
	rows, err := s.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("get records by date: %w", err)
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

// GetAll retrieves the whole table ordered by date ascending, insertion order
// within each date.
func (s *PriceHistoryStore) GetAll(ctx context.Context) ([]*domain.PriceRecord, error) {
	query := `
		SELECT product_id, name, brand, category, top_category,
		       current_price, list_price, date
		FROM price_history
		ORDER BY date ASC, id ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all price records: %w", err)
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

// Dates retrieves the distinct dates present, sorted ascending.
func (s *PriceHistoryStore) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT date FROM price_history ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("get distinct dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date row: %w", err)
		}
		dates = append(dates, d.Format(domain.DateLayout))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date rows: %w", err)
	}
	return dates, nil
}

// scanPriceRecords scans multiple rows into a slice of PriceRecord.
func scanPriceRecords(rows pgx.Rows) ([]*domain.PriceRecord, error) {
	var records []*domain.PriceRecord

	for rows.Next() {
		var r domain.PriceRecord
		var day time.Time

		err := rows.Scan(
			&r.ProductID, &r.Name, &r.Brand, &r.Category, &r.TopCategory,
			&r.CurrentPrice, &r.ListPrice, &day,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price record row: %w", err)
		}

		r.Date = day.Format(domain.DateLayout)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price record rows: %w", err)
	}

	return records, nil
}

func parseDay(date string) (time.Time, error) {
	return time.Parse(domain.DateLayout, date)
}
