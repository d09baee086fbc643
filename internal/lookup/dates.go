// Package lookup resolves reference dates on the sparse calendar axis of the
// historical table. Products appear and disappear and whole days can be
// missing, so fixed-offset indexing is unsafe; the only policy that degrades
// gracefully is "latest available date on or before the cutoff".
package lookup

import "time"

const dateLayout = "2006-01-02"

// ReferenceDate returns the reference date for a lookback window of
// lookbackDays, relative to the most recent date in dates.
// dates must be distinct and sorted ascending.
//
// cutoff = latest - lookbackDays; the reference is the maximum available date
// <= cutoff. ok is false when the period is undefined for this lookback
// (fewer than 2 distinct dates, or history too short to reach the cutoff);
// callers must treat that as "not yet computable", not as an error.
func ReferenceDate(dates []string, lookbackDays int) (string, bool) {
	if len(dates) < 2 {
		return "", false
	}

	latest := dates[len(dates)-1]
	cutoff, err := shiftDate(latest, -lookbackDays)
	if err != nil {
		return "", false
	}

	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i] <= cutoff {
			return dates[i], true
		}
	}
	return "", false
}

// TrailingRange returns the dates within the trailing window of maxDays
// calendar days ending at the latest date. If the window holds fewer than 2
// distinct dates, it widens to the last maxDays distinct dates regardless of
// calendar span. Returns nil when dates has fewer than 2 entries.
func TrailingRange(dates []string, maxDays int) []string {
	if len(dates) < 2 {
		return nil
	}

	latest := dates[len(dates)-1]
	start, err := shiftDate(latest, -maxDays)
	if err != nil {
		return nil
	}

	var inRange []string
	for _, d := range dates {
		if d >= start {
			inRange = append(inRange, d)
		}
	}

	if len(inRange) < 2 {
		n := maxDays
		if n > len(dates) {
			n = len(dates)
		}
		inRange = dates[len(dates)-n:]
	}
	return inRange
}

// shiftDate moves an ISO date by n calendar days.
func shiftDate(date string, n int) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(dateLayout), nil
}
