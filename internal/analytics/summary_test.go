package analytics

import (
	"testing"

	"retail-price-lab/internal/domain"
)

func TestBuildSummary_NilOnEmptyTable(t *testing.T) {
	if s := BuildSummary(NewTable(nil)); s != nil {
		t.Errorf("expected nil summary for empty table, got %+v", s)
	}
}

func TestBuildSummary_SingleProductScenario(t *testing.T) {
	// Single product rising 100 -> 110: day variation 10.0, counts (1,0,0).
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("a", "2024-01-02", 110, "Bebidas"),
	})

	s := BuildSummary(table)
	if s == nil {
		t.Fatal("expected summary")
	}
	if s.Date != "2024-01-02" || s.TotalProducts != 1 {
		t.Errorf("unexpected header: %+v", s)
	}
	if s.VariationDay == nil || *s.VariationDay != 10.0 {
		t.Errorf("expected day variation 10.0, got %v", s.VariationDay)
	}
	if s.ProductsUp != 1 || s.ProductsDown != 0 || s.ProductsFlat != 0 {
		t.Errorf("expected counts (1,0,0), got (%d,%d,%d)", s.ProductsUp, s.ProductsDown, s.ProductsFlat)
	}
}

func TestBuildSummary_UndefinedVariationsStayNil(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, ""),
		rec("a", "2024-01-02", 110, ""),
	})

	s := BuildSummary(table)
	if s.VariationMonth != nil {
		t.Errorf("expected nil month variation on 2-day history, got %v", *s.VariationMonth)
	}
	if s.VariationYear != nil {
		t.Errorf("expected nil year variation on 2-day history, got %v", *s.VariationYear)
	}
}

func TestBuildSummary_SingleDateTable(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("b", "2024-01-01", 50, "Carnes"),
	})

	s := BuildSummary(table)
	if s == nil {
		t.Fatal("expected summary even with one date")
	}
	if s.VariationDay != nil {
		t.Errorf("expected nil day variation, got %v", *s.VariationDay)
	}
	if s.ProductsUp != 0 || s.ProductsDown != 0 || s.ProductsFlat != 0 {
		t.Error("expected zero move counts with no prior date")
	}
	// Categories are still listed (with zero-valued display fields).
	if len(s.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(s.Categories))
	}
	if s.Categories[0].VariationPct != 0 {
		t.Errorf("expected substituted 0 for undefined category variation, got %v", s.Categories[0].VariationPct)
	}
}

func TestBuildSummary_CategoryBreakdown(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("b", "2024-01-01", 200, "Bebidas"),
		rec("c", "2024-01-01", 50, "Carnes"),
		rec("a", "2024-01-02", 110, "Bebidas"), // +10%
		rec("b", "2024-01-02", 180, "Bebidas"), // -10%
		rec("c", "2024-01-02", 50, "Carnes"),   // flat
	})

	s := BuildSummary(table)
	if len(s.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(s.Categories))
	}

	bebidas := s.Categories[0]
	if bebidas.Category != "Bebidas" {
		t.Fatalf("expected Bebidas first in display order, got %s", bebidas.Category)
	}
	if bebidas.VariationPct != 0.0 {
		t.Errorf("Bebidas: expected mean 0.0 (+10 -10), got %v", bebidas.VariationPct)
	}
	if bebidas.ProductsUp != 1 || bebidas.ProductsDown != 1 || bebidas.TotalProducts != 2 {
		t.Errorf("Bebidas counts wrong: %+v", bebidas)
	}

	carnes := s.Categories[1]
	if carnes.ProductsUp != 0 || carnes.ProductsDown != 0 || carnes.TotalProducts != 1 {
		t.Errorf("Carnes counts wrong: %+v", carnes)
	}

	if s.ProductsUp != 1 || s.ProductsDown != 1 || s.ProductsFlat != 1 {
		t.Errorf("overall counts wrong: (%d,%d,%d)", s.ProductsUp, s.ProductsDown, s.ProductsFlat)
	}
}

func TestBuildSummary_FallbackCategoryNotBrokenOut(t *testing.T) {
	// Otros products count toward the totals but get no breakdown row and no
	// chart series; only the enumerated categories are displayed.
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Bebidas"),
		rec("b", "2024-01-01", 50, domain.TopCategoryOther),
		rec("a", "2024-01-02", 110, "Bebidas"),
		rec("b", "2024-01-02", 55, domain.TopCategoryOther),
	})

	for _, c := range table.PresentTopCategories() {
		if c == domain.TopCategoryOther {
			t.Errorf("PresentTopCategories must not include %q", domain.TopCategoryOther)
		}
	}

	s := BuildSummary(table)
	if s.TotalProducts != 2 || s.ProductsUp != 2 {
		t.Errorf("Otros products must still count in totals: %+v", s)
	}
	for _, c := range s.Categories {
		if c.Category == domain.TopCategoryOther {
			t.Errorf("summary breakdown must not include %q", domain.TopCategoryOther)
		}
	}
	if len(s.Categories) != 1 || s.Categories[0].Category != "Bebidas" {
		t.Errorf("expected only Bebidas in breakdown, got %+v", s.Categories)
	}

	series := BuildIndexSeries(table, 30)
	if _, found := series.Categories[domain.TopCategoryOther]; found {
		t.Errorf("index series must not include %q", domain.TopCategoryOther)
	}
	if len(series.Total) != 2 {
		t.Fatalf("expected 2 total points, got %d", len(series.Total))
	}
	// Otros still contributes to the overall index: mean(+10%, +10%) = 10.
	if series.Total[1].Pct != 10.0 {
		t.Errorf("expected total index 10.0 including Otros products, got %v", series.Total[1].Pct)
	}
}

func TestBuildSummary_AbsentCategoriesOmitted(t *testing.T) {
	table := NewTable([]*domain.PriceRecord{
		rec("a", "2024-01-01", 100, "Electro"),
		rec("a", "2024-01-02", 100, "Electro"),
	})

	s := BuildSummary(table)
	if len(s.Categories) != 1 || s.Categories[0].Category != "Electro" {
		t.Errorf("expected only Electro, got %+v", s.Categories)
	}
}
