// Package main runs the daily analytics pipeline:
// load raw snapshot → normalize → merge → publish artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retail-price-lab/internal/config"
	"retail-price-lab/internal/domain"
	"retail-price-lab/internal/ingestion"
	"retail-price-lab/internal/observability"
	"retail-price-lab/internal/orchestrator"
	"retail-price-lab/internal/storage"
	"retail-price-lab/internal/storage/clickhouse"
	"retail-price-lab/internal/storage/csvfile"
	"retail-price-lab/internal/storage/memory"
	"retail-price-lab/internal/storage/migrations"
	"retail-price-lab/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Parse flags (flags override environment)
	date := flag.String("date", time.Now().Format(domain.DateLayout), "Snapshot date to merge (YYYY-MM-DD)")
	rawDir := flag.String("raw-dir", cfg.RawDir, "Directory with raw snapshot CSV files")
	outputDir := flag.String("out", cfg.OutputDir, "Output directory for published artifacts")
	storeBackend := flag.String("store", cfg.StoreBackend, "Store backend: csv, postgres, clickhouse or memory")
	historyFile := flag.String("history-file", cfg.HistoryFile, "History CSV path (csv backend)")
	topN := flag.Int("top", cfg.TopN, "Ranking size")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus listen address (empty disables)")
	verbose := flag.Bool("verbose", cfg.Verbose, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	store, cleanup, err := openStore(ctx, *storeBackend, *historyFile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	orch := orchestrator.New(orchestrator.Options{
		Store:     store,
		Source:    ingestion.NewCSVDirSource(*rawDir),
		Date:      *date,
		OutputDir: *outputDir,
		TopN:      *topN,
		Metrics:   metrics,
		Verbose:   *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run completed for %s:\n", result.Date)
	fmt.Printf("  Raw rows:       %d\n", result.RowsLoaded)
	fmt.Printf("  Valid products: %d\n", result.ProductsValid)
	fmt.Printf("  Table rows:     %d (%d dates)\n", result.TableRows, result.TableDates)
	fmt.Printf("  Digest:         %s\n", result.SnapshotDigest)
	fmt.Printf("  Artifacts:      %d written to %s\n", len(result.Artifacts), *outputDir)
}

// openStore builds the selected storage backend and runs its migrations.
func openStore(ctx context.Context, backend, historyFile string, cfg *config.Config) (storage.PriceHistoryStore, func(), error) {
	switch backend {
	case "csv":
		return csvfile.NewPriceHistoryStore(historyFile), func() {}, nil

	case "memory":
		return memory.NewPriceHistoryStore(), func() {}, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres backend requires PRICELAB_POSTGRES_DSN")
		}
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewPriceHistoryStore(pool), pool.Close, nil

	case "clickhouse":
		if cfg.ClickhouseDSN == "" {
			return nil, nil, fmt.Errorf("clickhouse backend requires PRICELAB_CLICKHOUSE_DSN")
		}
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, err
		}
		return clickhouse.NewPriceHistoryStore(conn), func() { conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
