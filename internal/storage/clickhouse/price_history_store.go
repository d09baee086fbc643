package clickhouse

import (
	"context"
	"fmt"
	"time"

	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
//
// The table is a ReplacingMergeTree keyed by (date, product_id): duplicate
// rows for a product-day collapse on merge, and reads go through FINAL so
// the invariant holds even before background merges run. ReplaceDay issues a
// lightweight DELETE for the day first so products absent from the new
// snapshot do not linger.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// ReplaceDay deletes the date's rows and batch-inserts the given records.
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

	if err := s.conn.Exec(ctx, `DELETE FROM price_history WHERE date = ?`, day); err != nil {
		return fmt.Errorf("delete day %s: %w", date, err)
	}
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			product_id, name, brand, category, top_category,
			current_price, list_price, date
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.ProductID, r.Name, r.Brand, r.Category, r.TopCategory,
			r.CurrentPrice, r.ListPrice, day,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByDate retrieves all records for one date, ordered by product_id ASC.
func (s *PriceHistoryStore) GetByDate(ctx context.Context, date string) ([]*domain.PriceRecord, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT product_id, name, brand, category, top_category,
		       current_price, list_price, date
		FROM price_history FINAL
		WHERE date = ?
		ORDER BY product_id ASC
	`
	rows, err := s.conn.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("query by date: %w", err)
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

// GetAll retrieves the whole table ordered by date ASC, product_id ASC.
func (s *PriceHistoryStore) GetAll(ctx context.Context) ([]*domain.PriceRecord, error) {
	query := `
		SELECT product_id, name, brand, category, top_category,
		       current_price, list_price, date
		FROM price_history FINAL
		ORDER BY date ASC, product_id ASC
	`
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

// Dates retrieves the distinct dates present, sorted ascending.
func (s *PriceHistoryStore) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT date FROM price_history ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query distinct dates: %w", err)
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

// chRows abstracts driver rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanPriceRecords scans multiple rows into a slice of PriceRecord.
func scanPriceRecords(rows chRows) ([]*domain.PriceRecord, error) {
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
