package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/medallion/internal/adapter/metrics"
	"github.com/user/medallion/internal/cleaning"
	"github.com/user/medallion/internal/domain"
)

// CleanService runs the bronze-to-silver stage: it reads every unprocessed
// raw batch per domain, applies the domain rule set, writes one new cleaned
// partition, and commits the consumed batches to the ledger. The commit is
// the last step, so a crash anywhere before it only causes safe
// reprocessing on the next run.
type CleanService struct {
	lake    domain.LakeStore
	ledger  *Ledger
	metrics *metrics.PipelineMetrics
	logger  *slog.Logger
}

// NewCleanService creates a new bronze-to-silver service.
func NewCleanService(lake domain.LakeStore, ledger *Ledger, m *metrics.PipelineMetrics, logger *slog.Logger) *CleanService {
	return &CleanService{
		lake:    lake,
		ledger:  ledger,
		metrics: m,
		logger:  logger.With("component", "clean_service"),
	}
}

// Run cleans every domain. Domains are independent: a failure in one does
// not stop the others, and all failures are reported together.
func (s *CleanService) Run(ctx context.Context) error {
	var errs []error
	for _, d := range domain.AllDomains() {
		if err := s.RunDomain(ctx, d); err != nil {
			s.logger.Error("cleaning run failed", "domain", d, "error", err)
			s.metrics.RunFailures.WithLabelValues("clean").Inc()
			errs = append(errs, fmt.Errorf("clean %s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

// RunDomain cleans a single domain.
func (s *CleanService) RunDomain(ctx context.Context, d domain.Domain) error {
	pending, err := s.ledger.Unprocessed(ctx, d)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		s.logger.Info("no new raw batches", "domain", d)
		return nil
	}

	// Unparsable batches are excluded from the input AND from the commit
	// set: they stay unprocessed in the ledger and are retried next run.
	var rows []map[string]string
	var consumed []string
	for _, path := range pending {
		batch, err := s.lake.ReadRaw(ctx, path)
		if err != nil {
			var parseErr *domain.BatchParseError
			if errors.As(err, &parseErr) {
				s.logger.Error("skipping malformed raw batch", "domain", d, "path", path, "error", err)
				s.metrics.BatchParseFailures.WithLabelValues(string(d)).Inc()
				continue
			}
			return err
		}
		rows = append(rows, batch.Rows...)
		consumed = append(consumed, path)
	}
	if len(consumed) == 0 {
		s.logger.Warn("all pending raw batches were malformed", "domain", d, "pending", len(pending))
		return nil
	}

	now := time.Now().UTC()
	lines, total, valid, duplicates, err := s.cleanRows(d, rows, now)
	if err != nil {
		return err
	}

	if _, err := s.lake.WriteCleaned(ctx, d, lines); err != nil {
		return err
	}

	s.metrics.BatchesProcessed.WithLabelValues(string(d)).Add(float64(len(consumed)))
	s.metrics.RowsCleaned.WithLabelValues(string(d), "valid").Add(float64(valid))
	s.metrics.RowsCleaned.WithLabelValues(string(d), "invalid").Add(float64(total - valid))
	s.metrics.DuplicatesRemoved.WithLabelValues(string(d)).Add(float64(duplicates))
	s.logger.Info("cleaned raw batches",
		"domain", d, "batches", len(consumed), "rows", total, "valid", valid,
		"invalid", total-valid, "duplicates_removed", duplicates)

	// Ledger commit is strictly last. If it fails the run fails: the
	// cleaned partition exists but the batches stay uncommitted, and the
	// next run reprocesses them, which dedup downstream tolerates.
	return s.ledger.Commit(ctx, d, consumed)
}

func (s *CleanService) cleanRows(d domain.Domain, rows []map[string]string, now time.Time) (lines [][]byte, total, valid, duplicates int, err error) {
	switch d {
	case domain.DomainSales:
		result := cleaning.CleanSales(rows, now)
		if result.Repaired > 0 {
			s.metrics.RepairsApplied.Add(float64(result.Repaired))
			s.logger.Info("repaired total_amount drift", "domain", d, "rows", result.Repaired)
		}
		lines, err = marshalRecords(result.Records)
		return lines, len(result.Records), result.Valid, result.DuplicatesRemoved, err
	case domain.DomainCustomerEvents:
		result := cleaning.CleanEvents(rows, now)
		lines, err = marshalRecords(result.Records)
		return lines, len(result.Records), result.Valid, result.DuplicatesRemoved, err
	case domain.DomainInventory:
		result := cleaning.CleanInventory(rows, now)
		lines, err = marshalRecords(result.Records)
		return lines, len(result.Records), result.Valid, result.DuplicatesRemoved, err
	default:
		return nil, 0, 0, 0, fmt.Errorf("unknown domain %q", d)
	}
}

func marshalRecords[T any](records []T) ([][]byte, error) {
	lines := make([][]byte, 0, len(records))
	for i := range records {
		line, err := json.Marshal(records[i])
		if err != nil {
			return nil, fmt.Errorf("encode cleaned record: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
