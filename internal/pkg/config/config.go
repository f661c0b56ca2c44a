package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Lake layout
	LakeDir  string `env:"LAKE_DIR" envDefault:"./datalake"`
	StateDir string `env:"STATE_DIR" envDefault:"./.state"`

	// Ledger backend: "file" or "postgres"
	LedgerBackend string `env:"LEDGER_BACKEND" envDefault:"file"`
	PostgresURL   string `env:"POSTGRES_URL"`

	// Scheduling
	PipelineInterval  time.Duration `env:"PIPELINE_INTERVAL" envDefault:"30m"`
	GeneratorInterval time.Duration `env:"GENERATOR_INTERVAL" envDefault:"5m"`
	RunOnce           bool          `env:"RUN_ONCE" envDefault:"false"`

	// Observability
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

	// Generator batch sizes
	SalesRowsPerBatch     int   `env:"SALES_ROWS_PER_BATCH" envDefault:"10"`
	EventsRowsPerBatch    int   `env:"EVENTS_ROWS_PER_BATCH" envDefault:"15"`
	InventoryRowsPerBatch int   `env:"INVENTORY_ROWS_PER_BATCH" envDefault:"8"`
	GeneratorSeed         int64 `env:"GENERATOR_SEED" envDefault:"0"` // 0 = time-seeded
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
