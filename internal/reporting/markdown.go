package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the daily report as a Markdown string. digest is
// the merged snapshot's content digest; empty when the run only regenerated
// artifacts without merging.
func RenderMarkdown(a *Artifacts, digest string) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Daily Price Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", a.GeneratedAt.Format(time.RFC3339)))
	if digest != "" {
		sb.WriteString(fmt.Sprintf("Snapshot digest: `%s`\n\n", digest))
	}

	if a.Summary == nil {
		sb.WriteString("No history available yet.\n")
		return sb.String()
	}
	s := a.Summary

	// Headline
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Date | %s |\n", s.FechaActualizacion))
	sb.WriteString(fmt.Sprintf("| Products | %d |\n", s.TotalProductos))
	sb.WriteString(fmt.Sprintf("| Day variation | %s |\n", formatPct(s.VariacionDia)))
	sb.WriteString(fmt.Sprintf("| 30d variation | %s |\n", formatPct(s.VariacionMes)))
	sb.WriteString(fmt.Sprintf("| 1y variation | %s |\n", formatPct(s.VariacionAnio)))
	sb.WriteString(fmt.Sprintf("| Up / Down / Flat | %d / %d / %d |\n",
		s.ProductosSubieron, s.ProductosBajaron, s.ProductosSinCambio))
	sb.WriteString("\n")

	// Category breakdown
	if len(s.CategoriasDia) > 0 {
		sb.WriteString("## Categories (day)\n\n")
		sb.WriteString("| Category | Mean % | Up | Down | Products |\n")
		sb.WriteString("|----------|--------|----|------|----------|\n")
		for _, c := range s.CategoriasDia {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %d | %d | %d |\n",
				c.Categoria, c.VariacionPctPromedio,
				c.ProductosSubieron, c.ProductosBajaron, c.TotalProductos))
		}
		sb.WriteString("\n")
	}

	writeRankingSection(&sb, "Top gainers (day)", a.RankingDia)
	writeRankingSection(&sb, "Top losers (day)", a.RankingBajaDia)
	writeRankingSection(&sb, "Top gainers (30d)", a.RankingMes)
	writeRankingSection(&sb, "Top gainers (1y)", a.RankingAnio)

	return sb.String()
}

func writeRankingSection(sb *strings.Builder, title string, entries []RankingEntryArtifact) {
	if len(entries) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString("| Product | Brand | Category | Now | Ref | Diff % |\n")
	sb.WriteString("|---------|-------|----------|-----|-----|--------|\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %.2f | %+.2f |\n",
			e.Nombre, e.Marca, e.Categoria, e.PrecioHoy, e.PrecioRef, e.DiffPct))
	}
	sb.WriteString("\n")
}

func formatPct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}
