package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/storage"
)

func rec(id, date string, price float64) *domain.PriceRecord {
	return &domain.PriceRecord{ProductID: id, Date: date, CurrentPrice: price, TopCategory: domain.TopCategoryOther}
}

func TestPriceHistoryStore_ReplaceDayAndGet(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	err := store.ReplaceDay(ctx, "2024-01-01", []*domain.PriceRecord{
		rec("a", "2024-01-01", 100),
		rec("b", "2024-01-01", 200),
	})
	if err != nil {
		t.Fatalf("ReplaceDay failed: %v", err)
	}

	day, err := store.GetByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if len(day) != 2 {
		t.Errorf("expected 2 records, got %d", len(day))
	}
	if day[0].ProductID != "a" || day[1].ProductID != "b" {
		t.Errorf("insertion order not preserved: %v, %v", day[0].ProductID, day[1].ProductID)
	}
}

func TestPriceHistoryStore_IdempotentReplace(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	snapshot := []*domain.PriceRecord{rec("a", "2024-01-03", 100), rec("b", "2024-01-03", 200)}

	if err := store.ReplaceDay(ctx, "2024-01-03", snapshot); err != nil {
		t.Fatalf("first merge failed: %v", err)
	}
	after1, _ := store.GetAll(ctx)

	if err := store.ReplaceDay(ctx, "2024-01-03", snapshot); err != nil {
		t.Fatalf("second merge failed: %v", err)
	}
	after2, _ := store.GetAll(ctx)

	if len(after1) != len(after2) {
		t.Errorf("re-ingestion changed row count: %d vs %d", len(after1), len(after2))
	}
	if !reflect.DeepEqual(after1, after2) {
		t.Error("re-ingestion changed table content")
	}
}

func TestPriceHistoryStore_ReplaceDoesNotTouchOtherDates(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	_ = store.ReplaceDay(ctx, "2024-01-01", []*domain.PriceRecord{rec("a", "2024-01-01", 100)})
	_ = store.ReplaceDay(ctx, "2024-01-02", []*domain.PriceRecord{rec("a", "2024-01-02", 110)})

	// Re-merge day 2 with different content.
	_ = store.ReplaceDay(ctx, "2024-01-02", []*domain.PriceRecord{rec("b", "2024-01-02", 50)})

	day1, _ := store.GetByDate(ctx, "2024-01-01")
	if len(day1) != 1 || day1[0].ProductID != "a" || day1[0].CurrentPrice != 100 {
		t.Errorf("day 1 was modified: %+v", day1)
	}

	day2, _ := store.GetByDate(ctx, "2024-01-02")
	if len(day2) != 1 || day2[0].ProductID != "b" {
		t.Errorf("day 2 not replaced: %+v", day2)
	}
}

func TestPriceHistoryStore_DatesSortedAscending(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	_ = store.ReplaceDay(ctx, "2024-01-03", []*domain.PriceRecord{rec("a", "2024-01-03", 1)})
	_ = store.ReplaceDay(ctx, "2024-01-01", []*domain.PriceRecord{rec("a", "2024-01-01", 1)})
	_ = store.ReplaceDay(ctx, "2024-01-02", []*domain.PriceRecord{rec("a", "2024-01-02", 1)})

	dates, err := store.Dates(ctx)
	if err != nil {
		t.Fatalf("Dates failed: %v", err)
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("expected %v, got %v", want, dates)
	}
}

func TestPriceHistoryStore_InvalidInput(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	err := store.ReplaceDay(ctx, "", nil)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty date, got %v", err)
	}

	// Record stamped with a different date than the merge target.
	err = store.ReplaceDay(ctx, "2024-01-01", []*domain.PriceRecord{rec("a", "2024-01-02", 1)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for mismatched record date, got %v", err)
	}
}

func TestPriceHistoryStore_GetAllOrderedByDate(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	_ = store.ReplaceDay(ctx, "2024-01-02", []*domain.PriceRecord{rec("x", "2024-01-02", 2)})
	_ = store.ReplaceDay(ctx, "2024-01-01", []*domain.PriceRecord{rec("x", "2024-01-01", 1)})

	all, _ := store.GetAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
	if all[0].Date != "2024-01-01" || all[1].Date != "2024-01-02" {
		t.Errorf("rows not ordered by date: %s, %s", all[0].Date, all[1].Date)
	}
}
