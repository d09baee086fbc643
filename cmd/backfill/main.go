// Package main replays a directory of raw snapshot files into the table,
// oldest day first, then publishes artifacts once at the end. Used to
// rebuild the table from scratch or to catch up after downtime.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"retail-price-lab/internal/config"
	"retail-price-lab/internal/ingestion"
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

	rawDir := flag.String("raw-dir", cfg.RawDir, "Directory with raw snapshot CSV files")
	outputDir := flag.String("out", cfg.OutputDir, "Output directory for published artifacts")
	storeBackend := flag.String("store", cfg.StoreBackend, "Store backend: csv, postgres, clickhouse or memory")
	historyFile := flag.String("history-file", cfg.HistoryFile, "History CSV path (csv backend)")
	topN := flag.Int("top", cfg.TopN, "Ranking size")
	from := flag.String("from", "", "Only merge dates >= from (YYYY-MM-DD)")
	to := flag.String("to", "", "Only merge dates <= to (YYYY-MM-DD)")
	skipPublish := flag.Bool("skip-publish", false, "Merge only, do not regenerate artifacts")
	verbose := flag.Bool("verbose", cfg.Verbose, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling backfill...\n", sig)
		cancel()
	}()

	store, cleanup, err := openStore(ctx, *storeBackend, *historyFile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	source := ingestion.NewCSVDirSource(*rawDir)
	dates, err := source.ListDates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing snapshot dates: %v\n", err)
		os.Exit(1)
	}
	if len(dates) == 0 {
		fmt.Fprintf(os.Stderr, "No snapshot files found in %s\n", *rawDir)
		os.Exit(1)
	}

	orch := orchestrator.New(orchestrator.Options{
		Store:     store,
		Source:    source,
		OutputDir: *outputDir,
		TopN:      *topN,
		Verbose:   *verbose,
	})

	merged := 0
	for _, date := range dates {
		if *from != "" && date < *from {
			continue
		}
		if *to != "" && date > *to {
			continue
		}
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Backfill cancelled: %v\n", err)
			os.Exit(1)
		}

		n, err := orch.Merge(ctx, date)
		if err != nil {
			// A day whose files are all broken is skipped, not fatal: later
			// days can still be merged.
			if errors.Is(err, orchestrator.ErrNoInput) {
				fmt.Printf("  %s: skipped (no valid input)\n", date)
				continue
			}
			fmt.Fprintf(os.Stderr, "Merge error on %s: %v\n", date, err)
			os.Exit(1)
		}
		fmt.Printf("  %s: merged %d products\n", date, n)
		merged++
	}
	fmt.Printf("Backfill merged %d of %d dates\n", merged, len(dates))

	if *skipPublish {
		return
	}

	result, err := orch.Publish(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Publish error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Published %d artifacts to %s (table: %d rows, %d dates)\n",
		len(result.Artifacts), *outputDir, result.TableRows, result.TableDates)
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
