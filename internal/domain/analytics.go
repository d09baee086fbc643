package domain

// Lookback windows in calendar days, relative to the most recent date
// present in the historical table.
const (
	LookbackDay      = 1
	LookbackWeek     = 7
	LookbackMonth    = 30
	LookbackHalfYear = 180
	LookbackYear     = 365
)

// IndexPeriod labels a trailing window for cumulative index series.
type IndexPeriod struct {
	Label string
	Days  int
}

// IndexPeriods is the set of published index windows, in output order.
var IndexPeriods = []IndexPeriod{
	{Label: "7d", Days: LookbackWeek},
	{Label: "30d", Days: LookbackMonth},
	{Label: "6m", Days: LookbackHalfYear},
	{Label: "1y", Days: LookbackYear},
}

// DefaultRankingSize is the default top-N count for gainer/loser rankings.
const DefaultRankingSize = 20

// IndexPoint is one emitted point of a cumulative index series.
type IndexPoint struct {
	Date string
	Pct  float64 // cumulative percentage, rounded to 2 decimals
}

// IndexSeries holds a chained cumulative percentage index over a date range:
// one overall series plus one per present top category, all sharing the same
// date axis and all seeded at 0.0 on the first date in range.
type IndexSeries struct {
	Total      []IndexPoint
	Categories map[string][]IndexPoint
}

// RankingEntry is one product's movement over a period.
type RankingEntry struct {
	ProductID string
	Name      string
	Brand     string
	Category  string
	PriceNow  float64
	PriceRef  float64
	DiffPct   float64
}

// CategoryDaySummary is the day-over-day breakdown for one top category.
// VariationPct displays 0 when the category variation is undefined; this is
// the only place where "undefined" is substituted with a default.
type CategoryDaySummary struct {
	Category      string
	VariationPct  float64
	ProductsUp    int
	ProductsDown  int
	TotalProducts int // size of the day-over-day join for this category
}

// DailySummary composes the per-run published snapshot.
// Variation fields are nil when the corresponding period is not yet
// computable (insufficient history or empty join).
type DailySummary struct {
	Date           string // latest date in the table
	TotalProducts  int    // product count on the latest date
	VariationDay   *float64
	VariationMonth *float64
	VariationYear  *float64
	ProductsUp     int
	ProductsDown   int
	ProductsFlat   int
	Categories     []CategoryDaySummary
}
