// Package ingestion loads raw crawler output for the analytics run. The
// crawler writes one or more CSV files per day (parallel category fetches
// may be split across files); they are concatenated before normalization and
// no ordering is assumed beyond "last duplicate wins" downstream.
package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"retail-price-lab/internal/domain"
)

// snapshotPrefix is the raw file naming convention: snapshot_YYYYMMDD*.csv.
const snapshotPrefix = "snapshot_"

// Source provides one day's raw rows.
type Source interface {
	// Load returns all raw rows for the given date (DateLayout). An empty
	// result means the crawler produced nothing for that day.
	Load(ctx context.Context, date string) ([]domain.RawProductRow, error)
}

// CSVDirSource reads raw per-day CSV files from a directory.
type CSVDirSource struct {
	dir string
}

// NewCSVDirSource creates a source over a crawler output directory.
func NewCSVDirSource(dir string) *CSVDirSource {
	return &CSVDirSource{dir: dir}
}

// Compile-time interface check.
var _ Source = (*CSVDirSource)(nil)

// Load concatenates all of the date's snapshot files. Files that cannot be
// read or parsed are skipped with a log line: a broken file is an input
// defect recovered by exclusion, never a run failure.
func (s *CSVDirSource) Load(_ context.Context, date string) ([]domain.RawProductRow, error) {
	compact := strings.ReplaceAll(date, "-", "")
	pattern := filepath.Join(s.dir, snapshotPrefix+compact+"*.csv")

	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(files)

	var rows []domain.RawProductRow
	for _, file := range files {
		fileRows, err := readSnapshotFile(file)
		if err != nil {
			log.Printf("skipping unreadable snapshot file %s: %v", file, err)
			continue
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// ListDates scans the directory for snapshot files and returns the distinct
// dates they cover, sorted ascending.
func (s *CSVDirSource) ListDates() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, snapshotPrefix+"*.csv"))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, file := range files {
		name := strings.TrimPrefix(filepath.Base(file), snapshotPrefix)
		if len(name) < 8 {
			continue
		}
		compact := name[:8]
		date := compact[:4] + "-" + compact[4:6] + "-" + compact[6:8]
		seen[date] = true
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// readSnapshotFile parses one raw CSV file into rows.
func readSnapshotFile(path string) ([]domain.RawProductRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseRawCSV(f)
}

// ParseRawCSV parses crawler CSV content: a header row naming the contract
// columns in any order, then data rows. A UTF-8 BOM is tolerated.
func ParseRawCSV(r io.Reader) ([]domain.RawProductRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled per field

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := colIdx["sku_id"]; !ok {
		return nil, fmt.Errorf("header missing sku_id column")
	}

	field := func(record []string, name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []domain.RawProductRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, domain.RawProductRow{
			ProductID:    field(record, "sku_id"),
			Name:         field(record, "name"),
			Brand:        field(record, "brand"),
			Category:     field(record, "category"),
			TopCategory:  field(record, "top_category"),
			CurrentPrice: field(record, "current_price"),
			ListPrice:    field(record, "list_price"),
			Date:         field(record, "date"),
		})
	}
	return rows, nil
}
