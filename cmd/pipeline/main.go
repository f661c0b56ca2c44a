package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/medallion/internal/adapter/metrics"
	"github.com/user/medallion/internal/adapter/repository/lakefs"
	"github.com/user/medallion/internal/adapter/repository/ledgerfile"
	"github.com/user/medallion/internal/adapter/repository/postgres"
	"github.com/user/medallion/internal/domain"
	"github.com/user/medallion/internal/pkg/config"
	"github.com/user/medallion/internal/pkg/logger"
	"github.com/user/medallion/internal/usecase"

	_ "github.com/lib/pq" // Keep for postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting pipeline worker", "lake_dir", cfg.LakeDir, "ledger_backend", cfg.LedgerBackend)

	// --- Metrics Registry and Server ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPipelineMetrics(registry)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}
	go func() {
		log.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Lake and Ledger Stores ---
	lake, err := lakefs.NewStore(cfg.LakeDir, log)
	if err != nil {
		log.Error("failed to open data lake", "error", err)
		os.Exit(1)
	}

	ledgerStore, cleanup, err := buildLedgerStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open ingestion ledger", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// --- Use Cases ---
	ledger := usecase.NewLedger(lake, ledgerStore, log)
	cleanService := usecase.NewCleanService(lake, ledger, m, log)
	aggregateService := usecase.NewAggregateService(lake, m, log)

	runPipeline := func() {
		if err := cleanService.Run(ctx); err != nil {
			log.Error("cleaning stage failed", "error", err)
		} else {
			m.LastRunTimestamp.WithLabelValues("clean").SetToCurrentTime()
		}
		if err := aggregateService.Run(ctx); err != nil {
			log.Error("aggregation stage failed", "error", err)
		} else {
			m.LastRunTimestamp.WithLabelValues("aggregate").SetToCurrentTime()
		}
	}

	// First run happens immediately, then on every tick.
	runPipeline()
	if cfg.RunOnce {
		log.Info("single run complete, exiting")
		shutdownMetrics(metricsServer, log)
		return
	}

	ticker := time.NewTicker(cfg.PipelineInterval)
	defer ticker.Stop()

	log.Info("pipeline worker started", "interval", cfg.PipelineInterval)

Loop:
	for {
		select {
		case <-ticker.C:
			runPipeline()
		case <-ctx.Done():
			log.Info("context cancelled, shutting down pipeline loop")
			break Loop
		}
	}

	shutdownMetrics(metricsServer, log)
	log.Info("pipeline worker shut down gracefully")
}

// buildLedgerStore selects the ledger backend from configuration. The
// returned cleanup closes any underlying connection.
func buildLedgerStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.LedgerStore, func(), error) {
	switch cfg.LedgerBackend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		repo := postgres.NewLedgerRepository(db, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("connected to postgres ledger")
		return repo, func() { db.Close() }, nil
	default:
		store, err := ledgerfile.NewStore(cfg.StateDir, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func shutdownMetrics(server *http.Server, log *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown failed", "error", err)
	}
}
