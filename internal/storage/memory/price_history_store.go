package memory

import (
	"context"
	"sort"
	"sync"

	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
// Insertion order is preserved within each day.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	days map[string][]*domain.PriceRecord // keyed by date
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		days: make(map[string][]*domain.PriceRecord),
	}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// ReplaceDay removes any existing records for date, then appends the given records.
func (s *PriceHistoryStore) ReplaceDay(_ context.Context, date string, records []*domain.PriceRecord) error {
	if date == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range records {
		if r == nil || r.ProductID == "" || r.Date != date {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := make([]*domain.PriceRecord, len(records))
	for i, r := range records {
		recordCopy := *r
		day[i] = &recordCopy
	}
	s.days[date] = day
	return nil
}

// GetByDate retrieves all records for one date in insertion order.
func (s *PriceHistoryStore) GetByDate(_ context.Context, date string) ([]*domain.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := s.days[date]
	result := make([]*domain.PriceRecord, len(day))
	for i, r := range day {
		recordCopy := *r
		result[i] = &recordCopy
	}
	return result, nil
}

// GetAll retrieves the whole table ordered by date ascending.
func (s *PriceHistoryStore) GetAll(_ context.Context) ([]*domain.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := s.sortedDates()
	var result []*domain.PriceRecord
	for _, d := range dates {
		for _, r := range s.days[d] {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	return result, nil
}

// Dates retrieves the distinct dates present, sorted ascending.
func (s *PriceHistoryStore) Dates(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedDates(), nil
}

func (s *PriceHistoryStore) sortedDates() []string {
	dates := make([]string, 0, len(s.days))
	for d := range s.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
