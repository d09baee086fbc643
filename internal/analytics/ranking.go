package analytics

import (
	"sort"

	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/lookup"
)

// TopMovers computes the topN largest gainers and topN largest losers by
// percentage change between the latest date and the reference date
// lookbackDays back, joined on product identity with strictly positive
// prices on both sides. Ties keep the join order (stable sort).
//
// Both slices are nil when the period is undefined or the join is empty.
func TopMovers(t *Table, lookbackDays, topN int) (gainers, losers []domain.RankingEntry) {
	dates := t.Dates()
	if len(dates) < 2 {
		return nil, nil
	}

	refDate, ok := lookup.ReferenceDate(dates, lookbackDays)
	if !ok {
		return nil, nil
	}

	refPrices := t.priceMap(refDate)

	var entries []domain.RankingEntry
	for _, r := range t.Day(t.LatestDate()) {
		pRef, matched := refPrices[r.ProductID]
		if !matched || r.CurrentPrice <= 0 || pRef <= 0 {
			continue
		}
		entries = append(entries, domain.RankingEntry{
			ProductID: r.ProductID,
			Name:      r.Name,
			Brand:     r.Brand,
			Category:  r.Category,
			PriceNow:  r.CurrentPrice,
			PriceRef:  pRef,
			DiffPct:   (r.CurrentPrice - pRef) / pRef * 100,
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}

	gainers = make([]domain.RankingEntry, len(entries))
	copy(gainers, entries)
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].DiffPct > gainers[j].DiffPct })

	losers = make([]domain.RankingEntry, len(entries))
	copy(losers, entries)
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].DiffPct < losers[j].DiffPct })

	return truncate(gainers, topN), truncate(losers, topN)
}

func truncate(entries []domain.RankingEntry, n int) []domain.RankingEntry {
	if n >= 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
