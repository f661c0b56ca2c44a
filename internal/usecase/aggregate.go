package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/medallion/internal/adapter/metrics"
	"github.com/user/medallion/internal/aggregate"
	"github.com/user/medallion/internal/domain"
)

// AggregateService runs the silver-to-gold stage: it reads the entire
// cleaned dataset per domain and recomputes every rollup from scratch,
// writing each as a new append-only snapshot. The service keeps no state
// between runs.
type AggregateService struct {
	lake    domain.LakeStore
	metrics *metrics.PipelineMetrics
	logger  *slog.Logger
}

// NewAggregateService creates a new silver-to-gold service.
func NewAggregateService(lake domain.LakeStore, m *metrics.PipelineMetrics, logger *slog.Logger) *AggregateService {
	return &AggregateService{
		lake:    lake,
		metrics: m,
		logger:  logger.With("component", "aggregate_service"),
	}
}

// Run recomputes every gold table. A domain with no valid cleaned rows
// produces no snapshots for its tables; that is a logged no-op, not an
// error.
func (s *AggregateService) Run(ctx context.Context) error {
	generatedAt := time.Now().UTC()

	var errs []error
	if err := s.runSales(ctx, generatedAt); err != nil {
		s.metrics.RunFailures.WithLabelValues("aggregate").Inc()
		errs = append(errs, fmt.Errorf("aggregate %s: %w", domain.DomainSales, err))
	}
	if err := s.runEvents(ctx, generatedAt); err != nil {
		s.metrics.RunFailures.WithLabelValues("aggregate").Inc()
		errs = append(errs, fmt.Errorf("aggregate %s: %w", domain.DomainCustomerEvents, err))
	}
	if err := s.runInventory(ctx, generatedAt); err != nil {
		s.metrics.RunFailures.WithLabelValues("aggregate").Inc()
		errs = append(errs, fmt.Errorf("aggregate %s: %w", domain.DomainInventory, err))
	}
	return errors.Join(errs...)
}

func (s *AggregateService) runSales(ctx context.Context, generatedAt time.Time) error {
	records, err := readCleaned[domain.SalesRecord](ctx, s, domain.DomainSales)
	if err != nil {
		return err
	}
	if err := writeTable(ctx, s, domain.TableDailySales, aggregate.BuildDailySales(records, generatedAt)); err != nil {
		return err
	}
	if err := writeTable(ctx, s, domain.TableCategorySales, aggregate.BuildCategorySales(records, generatedAt)); err != nil {
		return err
	}
	return writeTable(ctx, s, domain.TablePaymentMethod, aggregate.BuildPaymentMethod(records, generatedAt))
}

func (s *AggregateService) runEvents(ctx context.Context, generatedAt time.Time) error {
	records, err := readCleaned[domain.EventRecord](ctx, s, domain.DomainCustomerEvents)
	if err != nil {
		return err
	}
	if err := writeTable(ctx, s, domain.TableCustomerActivity, aggregate.BuildCustomerActivity(records, generatedAt)); err != nil {
		return err
	}
	return writeTable(ctx, s, domain.TableDeviceUsage, aggregate.BuildDeviceUsage(records, generatedAt))
}

func (s *AggregateService) runInventory(ctx context.Context, generatedAt time.Time) error {
	records, err := readCleaned[domain.MovementRecord](ctx, s, domain.DomainInventory)
	if err != nil {
		return err
	}
	if err := writeTable(ctx, s, domain.TableInventoryMovement, aggregate.BuildInventoryMovement(records, generatedAt)); err != nil {
		return err
	}
	return writeTable(ctx, s, domain.TableNetPosition, aggregate.BuildNetPosition(records, generatedAt))
}

// readCleaned decodes the full cleaned dataset for a domain. Undecodable
// lines are skipped with a warning rather than failing the whole run.
func readCleaned[T any](ctx context.Context, s *AggregateService, d domain.Domain) ([]T, error) {
	lines, err := s.lake.ReadAllCleaned(ctx, d)
	if err != nil {
		return nil, err
	}

	var records []T
	for _, line := range lines {
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			s.logger.Warn("skipping undecodable cleaned record", "domain", d, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeTable[T any](ctx context.Context, s *AggregateService, table string, rows []T) error {
	if len(rows) == 0 {
		s.logger.Info("no rows for rollup, skipping snapshot", "table", table)
		return nil
	}

	lines, err := marshalRecords(rows)
	if err != nil {
		return err
	}
	if _, err := s.lake.WriteSnapshot(ctx, table, lines); err != nil {
		return err
	}
	s.metrics.SnapshotsWritten.WithLabelValues(table).Inc()
	s.logger.Info("wrote rollup snapshot", "table", table, "rows", len(rows))
	return nil
}
