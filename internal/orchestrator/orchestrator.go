// Package orchestrator coordinates the daily batch run:
// load raw snapshot → normalize → merge → compute and publish artifacts.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"retail-price-lab/internal/analytics"
	"retail-price-lab/internal/idhash"
	"retail-price-lab/internal/ingestion"
	"retail-price-lab/internal/normalization"
	"retail-price-lab/internal/observability"
	"retail-price-lab/internal/reporting"
	"retail-price-lab/internal/storage"
)

// ErrNoInput is returned when the day's raw snapshot is empty (or entirely
// invalid). The run aborts before touching the table: merging an empty day
// would silently erase it.
var ErrNoInput = errors.New("no raw input for date")

// Orchestrator runs the pipeline end to end. Runs are single-threaded;
// concurrent runs against the same store must be serialized by the caller.
type Orchestrator struct {
	store   storage.PriceHistoryStore
	source  ingestion.Source
	date    string
	outDir  string
	topN    int
	metrics *observability.Metrics
	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	Store  storage.PriceHistoryStore
	Source ingestion.Source

	// Date is the snapshot day to merge, in DateLayout.
	Date string

	// OutputDir receives the published artifacts.
	OutputDir string

	// TopN bounds the ranking files; zero uses the default size.
	TopN int

	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		store:   opts.Store,
		source:  opts.Source,
		date:    opts.Date,
		outDir:  opts.OutputDir,
		topN:    opts.TopN,
		metrics: opts.Metrics,
		verbose: opts.Verbose,
	}
}

// RunResult contains results from a pipeline run.
type RunResult struct {
	Date           string
	RowsLoaded     int
	ProductsValid  int
	TableRows      int
	TableDates     int
	SnapshotDigest string
	Artifacts      []string
}

// Run executes the full pipeline.
// Phases:
//  1. Load the day's raw rows
//  2. Normalize into a snapshot
//  3. Merge the snapshot into the table (idempotent replace)
//  4. Compute and publish artifacts
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{Date: o.date}

	// Phase 1: Load raw rows
	o.log("Phase 1: Loading raw snapshot for %s...", o.date)
	rows, err := o.source.Load(ctx, o.date)
	if err != nil {
		o.countRun("error")
		return nil, fmt.Errorf("phase 1 (load raw) failed: %w", err)
	}
	result.RowsLoaded = len(rows)
	o.log("  Loaded %d raw rows", len(rows))
	if o.metrics != nil {
		o.metrics.RawRowsLoaded.Add(float64(len(rows)))
	}
	if len(rows) == 0 {
		o.countRun("no_input")
		return nil, fmt.Errorf("%w: %s", ErrNoInput, o.date)
	}

	// Phase 2: Normalize
	o.log("Phase 2: Normalizing...")
	snapshot := normalization.NormalizeSnapshot(rows, o.date)
	result.ProductsValid = len(snapshot)
	result.SnapshotDigest = idhash.SnapshotDigest(snapshot)
	o.log("  %d valid products (dropped %d), digest %s",
		len(snapshot), len(rows)-len(snapshot), result.SnapshotDigest)
	if o.metrics != nil {
		o.metrics.RowsDropped.WithLabelValues("invalid").Add(float64(len(rows) - len(snapshot)))
		o.metrics.SnapshotProducts.Set(float64(len(snapshot)))
	}
	if len(snapshot) == 0 {
		// Every row was an input defect; treat like an empty snapshot.
		o.countRun("no_input")
		return nil, fmt.Errorf("%w: %s (all %d rows invalid)", ErrNoInput, o.date, len(rows))
	}

	// Phase 3: Merge
	o.log("Phase 3: Merging into table...")
	mergeStart := time.Now()
	if err := o.store.ReplaceDay(ctx, o.date, snapshot); err != nil {
		o.countRun("error")
		return nil, fmt.Errorf("phase 3 (merge) failed: %w", err)
	}
	if o.metrics != nil {
		o.metrics.MergeDuration.Observe(time.Since(mergeStart).Seconds())
	}

	// Phase 4: Analytics and publication
	o.log("Phase 4: Computing artifacts...")
	analyzeStart := time.Now()
	artifacts, err := reporting.NewGenerator(o.store, o.topN).Generate(ctx)
	if err != nil {
		o.countRun("error")
		return nil, fmt.Errorf("phase 4 (analytics) failed: %w", err)
	}

	written, err := artifacts.WriteAll(o.outDir)
	if err != nil {
		o.countRun("error")
		return nil, fmt.Errorf("phase 4 (write artifacts) failed: %w", err)
	}
	reportPath := filepath.Join(o.outDir, reporting.FileDailyReport)
	md := reporting.RenderMarkdown(artifacts, result.SnapshotDigest)
	if err := os.WriteFile(reportPath, []byte(md), 0o644); err != nil {
		o.countRun("error")
		return nil, fmt.Errorf("phase 4 (write report) failed: %w", err)
	}
	written = append(written, reporting.FileDailyReport)
	result.Artifacts = written
	o.log("  Wrote %d artifacts to %s", len(written), o.outDir)

	if err := o.fillTableStats(ctx, result); err != nil {
		o.countRun("error")
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.AnalyzeDuration.Observe(time.Since(analyzeStart).Seconds())
		o.metrics.ArtifactsWritten.Add(float64(len(written)))
		o.metrics.HistoryRows.Set(float64(result.TableRows))
		o.metrics.HistoryDates.Set(float64(result.TableDates))
		o.metrics.LastSuccessfulRun.SetToCurrentTime()
	}
	o.countRun("success")
	return result, nil
}

// Merge runs phases 1-3 only, without recomputing artifacts. Backfill uses
// it to replay a range of days and publish once at the end.
func (o *Orchestrator) Merge(ctx context.Context, date string) (int, error) {
	rows, err := o.source.Load(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("load raw for %s: %w", date, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoInput, date)
	}

	snapshot := normalization.NormalizeSnapshot(rows, date)
	if len(snapshot) == 0 {
		return 0, fmt.Errorf("%w: %s (all %d rows invalid)", ErrNoInput, date, len(rows))
	}

	if err := o.store.ReplaceDay(ctx, date, snapshot); err != nil {
		return 0, fmt.Errorf("merge %s: %w", date, err)
	}
	return len(snapshot), nil
}

// Publish runs phase 4 only: recompute artifacts from the stored table.
func (o *Orchestrator) Publish(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	artifacts, err := reporting.NewGenerator(o.store, o.topN).Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics failed: %w", err)
	}
	written, err := artifacts.WriteAll(o.outDir)
	if err != nil {
		return nil, fmt.Errorf("write artifacts failed: %w", err)
	}
	reportPath := filepath.Join(o.outDir, reporting.FileDailyReport)
	md := reporting.RenderMarkdown(artifacts, "")
	if err := os.WriteFile(reportPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write report failed: %w", err)
	}
	written = append(written, reporting.FileDailyReport)
	result.Artifacts = written

	if err := o.fillTableStats(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) fillTableStats(ctx context.Context, result *RunResult) error {
	records, err := o.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load table stats: %w", err)
	}
	table := analytics.NewTable(records)
	result.TableRows = len(records)
	result.TableDates = len(table.Dates())
	if result.Date == "" {
		result.Date = table.LatestDate()
	}
	return nil
}

func (o *Orchestrator) countRun(outcome string) {
	if o.metrics != nil {
		o.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	}
}

// log prints if verbose mode is enabled.
func (o *Orchestrator) log(format string, args ...any) {
	if o.verbose {
		log.Printf(format, args...)
	}
}
