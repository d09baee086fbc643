// Package config loads runtime configuration from the environment.
// Flags on the individual commands override these values.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds environment-driven settings, prefixed PRICELAB_
// (e.g. PRICELAB_POSTGRES_DSN).
type Config struct {
	// Store selection: csv, postgres, clickhouse or memory.
	StoreBackend string `envconfig:"STORE_BACKEND" default:"csv"`

	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN"`

	// HistoryFile is the table location for the csv backend.
	HistoryFile string `envconfig:"HISTORY_FILE" default:"data/historico_precios.csv"`

	// RawDir is where the crawler drops snapshot_YYYYMMDD*.csv files.
	RawDir string `envconfig:"RAW_DIR" default:"data/raw"`

	// OutputDir receives the published JSON artifacts and the daily report.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"public/data"`

	// TopN bounds the ranking files.
	TopN int `envconfig:"TOP_N" default:"20"`

	// MetricsAddr, when set, serves Prometheus metrics (e.g. ":9091").
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	Verbose bool `envconfig:"VERBOSE" default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("PRICELAB", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
