package analytics

import (
	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/lookup"
)

// stepJoin is one product matched across two consecutive dates.
type stepJoin struct {
	diffPct     float64
	topCategory string // category on the earlier date
}

// BuildIndexSeries builds the chained day-by-day cumulative percentage index
// over the trailing window of maxDays calendar days: one overall series and
// one per present top category, all on the same date axis and all seeded at
// 0.0 on the first in-range date.
//
// For each consecutive pair of dates the mean day-over-day change of the
// joined products is added to a running total that is never reset, so the
// index tolerates products entering and leaving the catalog between any two
// days. A category with no matched products on a step keeps its previous
// cumulative value (flat segment, not a gap).
//
// Returns an empty series when the table has fewer than 2 distinct dates.
func BuildIndexSeries(t *Table, maxDays int) *domain.IndexSeries {
	series := &domain.IndexSeries{
		Total:      []domain.IndexPoint{},
		Categories: make(map[string][]domain.IndexPoint),
	}

	rangeDates := lookup.TrailingRange(t.Dates(), maxDays)
	if len(rangeDates) < 2 {
		return series
	}

	baseDate := rangeDates[0]
	series.Total = append(series.Total, domain.IndexPoint{Date: baseDate, Pct: 0.0})

	categories := t.PresentTopCategories()
	cumByCategory := make(map[string]float64, len(categories))
	for _, c := range categories {
		series.Categories[c] = []domain.IndexPoint{{Date: baseDate, Pct: 0.0}}
	}

	var cumTotal float64
	for i := 1; i < len(rangeDates); i++ {
		prev, curr := rangeDates[i-1], rangeDates[i]
		joined := joinStep(t, prev, curr)

		if mean, ok := meanOf(joined, ""); ok {
			cumTotal += mean
		}
		series.Total = append(series.Total, domain.IndexPoint{Date: curr, Pct: round2(cumTotal)})

		for _, c := range categories {
			if mean, ok := meanOf(joined, c); ok {
				cumByCategory[c] += mean
			}
			series.Categories[c] = append(series.Categories[c],
				domain.IndexPoint{Date: curr, Pct: round2(cumByCategory[c])})
		}
	}

	return series
}

// joinStep matches products present on both dates with strictly positive
// prices on both sides. Category membership follows the earlier date.
func joinStep(t *Table, prev, curr string) []stepJoin {
	currPrices := t.priceMap(curr)

	var joined []stepJoin
	for _, r := range t.Day(prev) {
		pCurr, matched := currPrices[r.ProductID]
		if !matched || r.CurrentPrice <= 0 || pCurr <= 0 {
			continue
		}
		joined = append(joined, stepJoin{
			diffPct:     (pCurr - r.CurrentPrice) / r.CurrentPrice * 100,
			topCategory: r.TopCategory,
		})
	}
	return joined
}

// meanOf averages diffPct over the join, optionally restricted to one
// category ("" means all). ok is false when nothing matches.
func meanOf(joined []stepJoin, category string) (float64, bool) {
	var sum float64
	var n int
	for _, j := range joined {
		if category != "" && j.topCategory != category {
			continue
		}
		sum += j.diffPct
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
