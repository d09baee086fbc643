// Package analytics computes variation statistics, cumulative indices,
// rankings and the daily summary from the historical price table. All
// computations are pure functions of an in-memory Table; results that depend
// on periods the history cannot yet resolve are nil, not errors.
package analytics

import (
	"math"
	"sort"

	"retail-price-lab/internal/domain"
)

// Table is an immutable per-date view over historical price records.
// Record order within a day follows the input slice, which all stores keep
// stable; every join below inherits that order.
type Table struct {
	dates []string
	days  map[string][]*domain.PriceRecord
}

// NewTable builds a table from historical records.
func NewTable(records []*domain.PriceRecord) *Table {
	t := &Table{days: make(map[string][]*domain.PriceRecord)}
	for _, r := range records {
		if _, seen := t.days[r.Date]; !seen {
			t.dates = append(t.dates, r.Date)
		}
		t.days[r.Date] = append(t.days[r.Date], r)
	}
	sort.Strings(t.dates)
	return t
}

// Dates returns the distinct dates present, sorted ascending.
func (t *Table) Dates() []string {
	return t.dates
}

// Day returns the records observed on one date.
func (t *Table) Day(date string) []*domain.PriceRecord {
	return t.days[date]
}

// LatestDate returns the most recent date, or "" for an empty table.
func (t *Table) LatestDate() string {
	if len(t.dates) == 0 {
		return ""
	}
	return t.dates[len(t.dates)-1]
}

// FilterTopCategory returns the slice of the table restricted to one top
// category. Dates with no matching products disappear from the slice's axis.
func (t *Table) FilterTopCategory(category string) *Table {
	var records []*domain.PriceRecord
	for _, d := range t.dates {
		for _, r := range t.days[d] {
			if r.TopCategory == category {
				records = append(records, r)
			}
		}
	}
	return NewTable(records)
}

// PresentTopCategories returns the top categories present anywhere in the
// table, in the fixed display order. Absent categories are omitted, not
// zero-filled. The Otros fallback is never displayed: its records count
// toward the totals but get no breakdown row or chart series of their own.
func (t *Table) PresentTopCategories() []string {
	present := make(map[string]bool)
	for _, day := range t.days {
		for _, r := range day {
			present[r.TopCategory] = true
		}
	}

	var ordered []string
	for _, c := range domain.TopCategories {
		if present[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// priceMap returns product_id -> current price for one date. Later records
// win, though stores never hold duplicates within a day.
func (t *Table) priceMap(date string) map[string]float64 {
	prices := make(map[string]float64, len(t.days[date]))
	for _, r := range t.days[date] {
		prices[r.ProductID] = r.CurrentPrice
	}
	return prices
}

// meanDiffPct joins two price maps on product identity, restricted to
// strictly positive prices on both sides, and returns the mean percentage
// change from ref to now. ok is false when the join is empty.
func meanDiffPct(now, ref map[string]float64) (float64, bool) {
	var sum float64
	var n int
	for id, pNow := range now {
		pRef, matched := ref[id]
		if !matched || pNow <= 0 || pRef <= 0 {
			continue
		}
		sum += (pNow - pRef) / pRef * 100
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// round2 rounds to 2 decimals; all published percentages use this.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
