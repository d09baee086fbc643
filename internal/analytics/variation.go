package analytics

import "retail-price-lab/internal/lookup"

// PeriodVariation computes the mean percentage price change between the
// latest date in the table and the reference date lookbackDays back, over
// the intersection of products present on both dates with strictly positive
// prices on both sides. Rounded to 2 decimals.
//
// Returns nil when the period is undefined: fewer than 2 distinct dates, no
// available date on or before the cutoff, or an empty join.
func PeriodVariation(t *Table, lookbackDays int) *float64 {
	dates := t.Dates()
	if len(dates) < 2 {
		return nil
	}

	refDate, ok := lookup.ReferenceDate(dates, lookbackDays)
	if !ok {
		return nil
	}

	mean, ok := meanDiffPct(t.priceMap(t.LatestDate()), t.priceMap(refDate))
	if !ok {
		return nil
	}

	v := round2(mean)
	return &v
}
