package analytics

import (
	"testing"

	"retail-price-lab/internal/domain"
)

func TestBuildIndexSeries_EmptyOnInsufficientHistory(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, ""),
	})

	series := BuildIndexSeries(table, 30)
	if len(series.Total) != 0 {
		t.Errorf("expected empty total series, got %v", series.Total)
	}
	if len(series.Categories) != 0 {
		t.Errorf("expected no category series, got %v", series.Categories)
	}
}

func TestBuildIndexSeries_SeedsAtZero(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("a", "2024-01-02", 110, "Bebidas"),
	})

	series := BuildIndexSeries(table, 30)

	if series.Total[0].Date != "2024-01-01" || series.Total[0].Pct != 0.0 {
		t.Errorf("total not seeded at (first date, 0.0): %+v", series.Total[0])
	}
	for cat, pts := range series.Categories {
		if pts[0].Date != "2024-01-01" || pts[0].Pct != 0.0 {
			t.Errorf("category %s not seeded at (first date, 0.0): %+v", cat, pts[0])
		}
	}
}

func TestBuildIndexSeries_ChainedAccumulation(t *testing.T) {
	// +10% then -10%: cumulative is 10.0 then 0.0 (sum of step means, not a
	// fixed-base ratio).
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, ""),
		rec("a", "2024-01-02", 110, ""),
		rec("a", "2024-01-03", 99, ""),
	})

	series := BuildIndexSeries(table, 30)
	if len(series.Total) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series.Total))
	}
	if series.Total[1].Pct != 10.0 {
		t.Errorf("day 2: expected 10.0, got %v", series.Total[1].Pct)
	}
	if series.Total[2].Pct != 0.0 {
		t.Errorf("day 3: expected 0.0 (10 - 10), got %v", series.Total[2].Pct)
	}
}

func TestBuildIndexSeries_ChurnProducesFlatSegmentNotGap(t *testing.T) {
	// Product a present on day 1 and day 3 but absent on day 2; product b
	// carries day 2. The series still emits a day-2 point and resumes
	// accumulating on day 3 with whatever joins exist then.
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("b", "2024-01-02", 50, "Carnes"),
		rec("a", "2024-01-03", 120, "Bebidas"),
		rec("b", "2024-01-03", 55, "Carnes"),
	})

	series := BuildIndexSeries(table, 30)
	if len(series.Total) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series.Total))
	}
	// Step 1->2: empty join, cumulative unchanged.
	if series.Total[1].Pct != 0.0 {
		t.Errorf("day 2: expected flat 0.0, got %v", series.Total[1].Pct)
	}
	// Step 2->3: only b joins (+10%).
	if series.Total[2].Pct != 10.0 {
		t.Errorf("day 3: expected 10.0, got %v", series.Total[2].Pct)
	}

	// Category with no join on a step keeps its cumulative value.
	bebidas := series.Categories["Bebidas"]
	if len(bebidas) != 3 {
		t.Fatalf("expected 3 Bebidas points, got %d", len(bebidas))
	}
	if bebidas[1].Pct != 0.0 || bebidas[2].Pct != 0.0 {
		t.Errorf("Bebidas: expected flat 0.0 throughout, got %v", bebidas)
	}
}

func TestBuildIndexSeries_SharedDateAxis(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("b", "2024-01-01", 10, "Carnes"),
		rec("a", "2024-01-02", 101, "Bebidas"),
		rec("b", "2024-01-02", 11, "Carnes"),
		rec("a", "2024-01-03", 102, "Bebidas"),
	})

	series := BuildIndexSeries(table, 30)
	for cat, pts := range series.Categories {
		if len(pts) != len(series.Total) {
			t.Errorf("category %s: axis length %d, total axis %d", cat, len(pts), len(series.Total))
		}
		for i := range pts {
			if pts[i].Date != series.Total[i].Date {
				t.Errorf("category %s point %d: date %s, total date %s",
					cat, i, pts[i].Date, series.Total[i].Date)
			}
		}
	}
}

func TestBuildIndexSeries_CategoryOrderFixed(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Carnes"),
		rec("b", "2024-01-01", 10, "Bebidas"),
		rec("a", "2024-01-02", 101, "Carnes"),
		rec("b", "2024-01-02", 11, "Bebidas"),
	})

	cats := table.PresentTopCategories()
	// Bebidas precedes Carnes in the fixed display order.
	if len(cats) != 2 || cats[0] != "Bebidas" || cats[1] != "Carnes" {
		t.Errorf("unexpected category order: %v", cats)
	}
}

func TestBuildIndexSeries_WindowRestrictsDates(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2023-01-01", 50, ""),
		rec("a", "2024-01-08", 100, ""),
		rec("a", "2024-01-10", 110, ""),
	})

	series := BuildIndexSeries(table, 7)
	if len(series.Total) != 2 {
		t.Fatalf("expected 2 points inside 7d window, got %d", len(series.Total))
	}
	if series.Total[0].Date != "2024-01-08" {
		t.Errorf("expected window to start at 2024-01-08, got %s", series.Total[0].Date)
	}
	if series.Total[1].Pct != 10.0 {
		t.Errorf("expected 10.0, got %v", series.Total[1].Pct)
	}
}
