package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/user/medallion/internal/adapter/repository/lakefs"
	"github.com/user/medallion/internal/domain"
	"github.com/user/medallion/internal/generator"
	"github.com/user/medallion/internal/pkg/config"
	"github.com/user/medallion/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("starting batch generator", "lake_dir", cfg.LakeDir, "interval", cfg.GeneratorInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lake, err := lakefs.NewStore(cfg.LakeDir, log)
	if err != nil {
		log.Error("failed to open data lake", "error", err)
		os.Exit(1)
	}

	gen := generator.New(cfg.GeneratorSeed)

	emit := func(now time.Time) {
		batches := []struct {
			domain domain.Domain
			name   string
			data   []byte
		}{
			{domain.DomainSales, fmt.Sprintf("sales_%s.csv", now.Format("20060102_150405")), gen.SalesBatch(cfg.SalesRowsPerBatch, now)},
			{domain.DomainCustomerEvents, fmt.Sprintf("events_%s.csv", now.Format("20060102_150405")), gen.EventsBatch(cfg.EventsRowsPerBatch, now)},
			{domain.DomainInventory, fmt.Sprintf("inventory_%s.csv", now.Format("20060102_150405")), gen.InventoryBatch(cfg.InventoryRowsPerBatch, now)},
		}
		for _, b := range batches {
			path, err := lake.SaveRaw(ctx, b.domain, b.name, b.data)
			if err != nil {
				log.Error("failed to write raw batch", "domain", b.domain, "error", err)
				continue
			}
			log.Info("wrote raw batch", "domain", b.domain, "path", path, "bytes", len(b.data))
		}
	}

	emit(time.Now().UTC())
	if cfg.RunOnce {
		log.Info("single batch emitted, exiting")
		return
	}

	// The limiter paces one emission per interval, with the burst of one
	// already consumed by the initial emission above.
	limiter := rate.NewLimiter(rate.Every(cfg.GeneratorInterval), 1)
	limiter.Allow()

	for {
		if err := limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("batch generator shut down gracefully")
				return
			}
			log.Error("limiter wait failed", "error", err)
			return
		}
		emit(time.Now().UTC())
	}
}
