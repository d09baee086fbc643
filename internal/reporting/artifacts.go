// Package reporting turns the historical table's analytics into the
// published artifacts: the JSON files the site frontend consumes and a daily
// Markdown report. JSON field names are the frontend contract and stay in
// Spanish; they are not renamed to match Go identifiers.
package reporting

import "time"

// Published artifact file names.
const (
	FileSummary        = "resumen.json"
	FileCharts         = "graficos.json"
	FileRankingDia     = "ranking_dia.json"
	FileRankingBajaDia = "ranking_baja_dia.json"
	FileRankingMes     = "ranking_mes.json"
	FileRankingAnio    = "ranking_anio.json"
	FileDailyReport    = "REPORT_DAILY.md"
)

// embeddedLosersCount is how many of the day's top losers the summary embeds.
const embeddedLosersCount = 10

// Artifacts is one run's full publishable output.
type Artifacts struct {
	GeneratedAt time.Time

	// Summary is nil when the table is empty; nothing is published then.
	Summary *SummaryArtifact
	Charts  ChartsArtifact

	RankingDia     []RankingEntryArtifact // day's top gainers
	RankingBajaDia []RankingEntryArtifact // day's top losers
	RankingMes     []RankingEntryArtifact // 30-day top gainers
	RankingAnio    []RankingEntryArtifact // 365-day top gainers
}

// SummaryArtifact is the resumen.json payload. Variations are pointers so an
// undefined period serializes as null rather than a misleading 0.
type SummaryArtifact struct {
	FechaActualizacion string   `json:"fecha_actualizacion"`
	TotalProductos     int      `json:"total_productos"`
	VariacionDia       *float64 `json:"variacion_dia"`
	VariacionMes       *float64 `json:"variacion_mes"`
	VariacionAnio      *float64 `json:"variacion_anio"`
	ProductosSubieron  int      `json:"productos_subieron_dia"`
	ProductosBajaron   int      `json:"productos_bajaron_dia"`
	ProductosSinCambio int      `json:"productos_sin_cambio_dia"`

	CategoriasDia  []CategoriaDiaArtifact `json:"categorias_dia"`
	RankingBajaDia []RankingEntryArtifact `json:"ranking_baja_dia"`
}

// CategoriaDiaArtifact is one top-category row in the summary.
type CategoriaDiaArtifact struct {
	Categoria            string  `json:"categoria"`
	VariacionPctPromedio float64 `json:"variacion_pct_promedio"`
	ProductosSubieron    int     `json:"productos_subieron"`
	ProductosBajaron     int     `json:"productos_bajaron"`
	TotalProductos       int     `json:"total_productos"`
}

// RankingEntryArtifact is one product row in a ranking file.
type RankingEntryArtifact struct {
	SKUID     string  `json:"sku_id"`
	Nombre    string  `json:"nombre"`
	Marca     string  `json:"marca"`
	Categoria string  `json:"categoria"`
	PrecioHoy float64 `json:"precio_hoy"`
	PrecioRef float64 `json:"precio_ref"`
	DiffPct   float64 `json:"diff_pct"`
}

// ChartsArtifact is the graficos.json payload, keyed by period label
// ("7d", "30d", "6m", "1y").
type ChartsArtifact map[string]ChartSeriesArtifact

// ChartSeriesArtifact is one period's cumulative index chart. Total and
// every category series share the same date axis.
type ChartSeriesArtifact struct {
	Total      []ChartPointArtifact            `json:"total"`
	Categorias map[string][]ChartPointArtifact `json:"categorias"`
}

// ChartPointArtifact is one chart point.
type ChartPointArtifact struct {
	Fecha string  `json:"fecha"`
	Pct   float64 `json:"pct"`
}
