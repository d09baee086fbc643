// Package csvfile persists the historical price table as a single CSV file.
// It is the default store for single-machine runs: no server, the file is
// the durable artifact, and a rewrite is cheap at the table sizes involved
// (hundreds of thousands of rows).
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/storage"
)

var historyHeader = []string{
	"sku_id", "name", "brand", "category", "top_category",
	"current_price", "list_price", "date",
}

// PriceHistoryStore is a CSV-file implementation of storage.PriceHistoryStore.
// Writes go through a temp file and rename so a crashed run never leaves a
// half-written table behind.
type PriceHistoryStore struct {
	path string
}

// NewPriceHistoryStore creates a store over the given history file path. The
// file does not need to exist yet; a missing file reads as an empty table.
func NewPriceHistoryStore(path string) *PriceHistoryStore {
	return &PriceHistoryStore{path: path}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// ReplaceDay rewrites the history file with the date's rows replaced by the
// given records. Existing rows keep their file order; new rows go at the end.
func (s *PriceHistoryStore) ReplaceDay(ctx context.Context, date string, records []*domain.PriceRecord) error {
	if date == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range records {
		if r == nil || r.ProductID == "" || r.Date != date {
			return storage.ErrInvalidInput
		}
	}

	existing, err := s.readAll()
	if err != nil {
		return err
	}

	merged := make([]*domain.PriceRecord, 0, len(existing)+len(records))
	for _, r := range existing {
		if r.Date != date {
			merged = append(merged, r)
		}
	}
	merged = append(merged, records...)

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeAll(merged)
}

// GetByDate retrieves all records for one date in file order.
func (s *PriceHistoryStore) GetByDate(_ context.Context, date string) ([]*domain.PriceRecord, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	result := make([]*domain.PriceRecord, 0)
	for _, r := range all {
		if r.Date == date {
			result = append(result, r)
		}
	}
	return result, nil
}

// GetAll retrieves the whole table ordered by date ascending. File order is
// preserved within each date.
func (s *PriceHistoryStore) GetAll(_ context.Context) ([]*domain.PriceRecord, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date < all[j].Date })
	return all, nil
}

// Dates retrieves the distinct dates present, sorted ascending.
func (s *PriceHistoryStore) Dates(_ context.Context) ([]string, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, r := range all {
		seen[r.Date] = true
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *PriceHistoryStore) readAll() ([]*domain.PriceRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: no history yet.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history header: %w", err)
	}
	if len(header) != len(historyHeader) {
		return nil, fmt.Errorf("history file has %d columns, want %d", len(header), len(historyHeader))
	}

	var records []*domain.PriceRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read history row: %w", err)
		}
		r, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *PriceHistoryStore) writeAll(records []*domain.PriceRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(historyHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write history header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(formatRow(r)); err != nil {
			tmp.Close()
			return fmt.Errorf("write history row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

func parseRow(row []string) (*domain.PriceRecord, error) {
	if len(row) != len(historyHeader) {
		return nil, fmt.Errorf("history row has %d fields, want %d", len(row), len(historyHeader))
	}
	current, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return nil, fmt.Errorf("parse current_price %q: %w", row[5], err)
	}
	list, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return nil, fmt.Errorf("parse list_price %q: %w", row[6], err)
	}
	return &domain.PriceRecord{
		ProductID:    row[0],
		Name:         row[1],
		Brand:        row[2],
		Category:     row[3],
		TopCategory:  row[4],
		CurrentPrice: current,
		ListPrice:    list,
		Date:         row[7],
	}, nil
}

func formatRow(r *domain.PriceRecord) []string {
	return []string{
		r.ProductID,
		r.Name,
		r.Brand,
		r.Category,
		r.TopCategory,
		strconv.FormatFloat(r.CurrentPrice, 'f', -1, 64),
		strconv.FormatFloat(r.ListPrice, 'f', -1, 64),
		r.Date,
	}
}
