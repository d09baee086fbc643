package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"retail-price-lab/internal/analytics"
	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/storage"
)

// Generator produces publishable artifacts from stored history.
type Generator struct {
	store storage.PriceHistoryStore
	topN  int
	now   func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new artifact generator. topN bounds the ranking
// files; zero or negative falls back to the default size.
func NewGenerator(store storage.PriceHistoryStore, topN int) *Generator {
	if topN <= 0 {
		topN = domain.DefaultRankingSize
	}
	return &Generator{
		store: store,
		topN:  topN,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the whole table and computes every artifact. An empty table
// yields Artifacts with a nil Summary and empty collections.
func (g *Generator) Generate(ctx context.Context) (*Artifacts, error) {
	records, err := g.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	table := analytics.NewTable(records)

	a := &Artifacts{
		GeneratedAt: g.now(),
		Charts:      make(ChartsArtifact, len(domain.IndexPeriods)),
	}

	gainersDay, losersDay := analytics.TopMovers(table, domain.LookbackDay, g.topN)
	gainersMonth, _ := analytics.TopMovers(table, domain.LookbackMonth, g.topN)
	gainersYear, _ := analytics.TopMovers(table, domain.LookbackYear, g.topN)
	a.RankingDia = toRankingArtifacts(gainersDay)
	a.RankingBajaDia = toRankingArtifacts(losersDay)
	a.RankingMes = toRankingArtifacts(gainersMonth)
	a.RankingAnio = toRankingArtifacts(gainersYear)

	for _, period := range domain.IndexPeriods {
		series := analytics.BuildIndexSeries(table, period.Days)
		a.Charts[period.Label] = toChartSeries(series)
	}

	if summary := analytics.BuildSummary(table); summary != nil {
		a.Summary = toSummaryArtifact(summary, a.RankingBajaDia)
	}

	return a, nil
}

// WriteAll writes every artifact file into dir, creating it if needed.
// Returns the file names written.
func (a *Artifacts) WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name string
		data any
	}{
		{FileCharts, a.Charts},
		{FileRankingDia, a.RankingDia},
		{FileRankingBajaDia, a.RankingBajaDia},
		{FileRankingMes, a.RankingMes},
		{FileRankingAnio, a.RankingAnio},
	}

	var written []string
	if a.Summary != nil {
		if err := writeJSONFile(filepath.Join(dir, FileSummary), a.Summary); err != nil {
			return written, err
		}
		written = append(written, FileSummary)
	}
	for _, f := range files {
		if err := writeJSONFile(filepath.Join(dir, f.name), f.data); err != nil {
			return written, err
		}
		written = append(written, f.name)
	}
	return written, nil
}

func toSummaryArtifact(s *domain.DailySummary, losersDay []RankingEntryArtifact) *SummaryArtifact {
	categorias := make([]CategoriaDiaArtifact, 0, len(s.Categories))
	for _, c := range s.Categories {
		categorias = append(categorias, CategoriaDiaArtifact{
			Categoria:            c.Category,
			VariacionPctPromedio: c.VariationPct,
			ProductosSubieron:    c.ProductsUp,
			ProductosBajaron:     c.ProductsDown,
			TotalProductos:       c.TotalProducts,
		})
	}

	embedded := losersDay
	if len(embedded) > embeddedLosersCount {
		embedded = embedded[:embeddedLosersCount]
	}

	return &SummaryArtifact{
		FechaActualizacion: s.Date,
		TotalProductos:     s.TotalProducts,
		VariacionDia:       s.VariationDay,
		VariacionMes:       s.VariationMonth,
		VariacionAnio:      s.VariationYear,
		ProductosSubieron:  s.ProductsUp,
		ProductosBajaron:   s.ProductsDown,
		ProductosSinCambio: s.ProductsFlat,
		CategoriasDia:      categorias,
		RankingBajaDia:     embedded,
	}
}

func toRankingArtifacts(entries []domain.RankingEntry) []RankingEntryArtifact {
	result := make([]RankingEntryArtifact, 0, len(entries))
	for _, e := range entries {
		result = append(result, RankingEntryArtifact{
			SKUID:     e.ProductID,
			Nombre:    e.Name,
			Marca:     e.Brand,
			Categoria: e.Category,
			PrecioHoy: e.PriceNow,
			PrecioRef: e.PriceRef,
			DiffPct:   e.DiffPct,
		})
	}
	return result
}

func toChartSeries(series *domain.IndexSeries) ChartSeriesArtifact {
	out := ChartSeriesArtifact{
		Total:      toChartPoints(series.Total),
		Categorias: make(map[string][]ChartPointArtifact, len(series.Categories)),
	}
	for category, points := range series.Categories {
		out.Categorias[category] = toChartPoints(points)
	}
	return out
}

func toChartPoints(points []domain.IndexPoint) []ChartPointArtifact {
	result := make([]ChartPointArtifact, 0, len(points))
	for _, p := range points {
		result = append(result, ChartPointArtifact{Fecha: p.Date, Pct: p.Pct})
	}
	return result
}
