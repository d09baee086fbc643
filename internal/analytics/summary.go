package analytics

import (
	"retail-price-lab/internal/domain"
)

// BuildSummary composes the daily published snapshot: latest-day product
// count, day/month/year variations, day-over-day up/down/flat counts, and
// the per-top-category day breakdown in fixed display order.
//
// Up/down/flat counts compare the latest date against the previous available
// date (strict >, <, == over the positive-price join). Category day
// variation substitutes 0 when undefined; that substitution is for display
// only and happens nowhere else.
//
// Returns nil for an empty table.
func BuildSummary(t *Table) *domain.DailySummary {
	dates := t.Dates()
	if len(dates) == 0 {
		return nil
	}
	latest := t.LatestDate()

	s := &domain.DailySummary{
		Date:           latest,
		TotalProducts:  len(t.Day(latest)),
		VariationDay:   PeriodVariation(t, domain.LookbackDay),
		VariationMonth: PeriodVariation(t, domain.LookbackMonth),
		VariationYear:  PeriodVariation(t, domain.LookbackYear),
	}

	var prevDate string
	if len(dates) >= 2 {
		prevDate = dates[len(dates)-2]
		s.ProductsUp, s.ProductsDown, s.ProductsFlat, _ = countMoves(
			t.priceMap(latest), t.priceMap(prevDate))
	}

	for _, category := range t.PresentTopCategories() {
		slice := t.FilterTopCategory(category)

		variation := 0.0
		if v := PeriodVariation(slice, domain.LookbackDay); v != nil {
			variation = *v
		}

		cs := domain.CategoryDaySummary{Category: category, VariationPct: variation}
		if prevDate != "" {
			cs.ProductsUp, cs.ProductsDown, _, cs.TotalProducts = countMoves(
				slice.priceMap(latest), slice.priceMap(prevDate))
		}
		s.Categories = append(s.Categories, cs)
	}

	return s
}

// countMoves joins two price maps on product identity with strictly positive
// prices on both sides and counts strict increases, strict decreases and
// exact holds. total is the join size.
func countMoves(now, prev map[string]float64) (up, down, flat, total int) {
	for id, pNow := range now {
		pPrev, matched := prev[id]
		if !matched || pNow <= 0 || pPrev <= 0 {
			continue
		}
		total++
		switch {
		case pNow > pPrev:
			up++
		case pNow < pPrev:
			down++
		default:
			flat++
		}
	}
	return up, down, flat, total
}
