// Package main regenerates the published artifacts from the stored table
// without merging new data. Useful after changing ranking size or output
// location, or to rebuild a wiped output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"retail-price-lab/internal/config"
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

	outputDir := flag.String("out", cfg.OutputDir, "Output directory for published artifacts")
	storeBackend := flag.String("store", cfg.StoreBackend, "Store backend: csv, postgres, clickhouse or memory")
	historyFile := flag.String("history-file", cfg.HistoryFile, "History CSV path (csv backend)")
	topN := flag.Int("top", cfg.TopN, "Ranking size")
	verbose := flag.Bool("verbose", cfg.Verbose, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	store, cleanup, err := openStore(ctx, *storeBackend, *historyFile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	orch := orchestrator.New(orchestrator.Options{
		Store:     store,
		OutputDir: *outputDir,
		TopN:      *topN,
		Verbose:   *verbose,
	})

	result, err := orch.Publish(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Publish error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Artifacts regenerated from table (%d rows, %d dates, latest %s)\n",
		result.TableRows, result.TableDates, result.Date)
	fmt.Printf("  %d files written to %s\n", len(result.Artifacts), *outputDir)
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
