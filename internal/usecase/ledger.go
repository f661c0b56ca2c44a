package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/medallion/internal/domain"
)

// Ledger tracks which raw batches have already been folded into the cleaned
// layer. It owns the per-domain committed set; Commit is the only mutation
// and must run after the corresponding cleaned output is durably written.
type Ledger struct {
	lake   domain.LakeStore
	store  domain.LedgerStore
	logger *slog.Logger
}

// NewLedger creates a ledger over a lake store and a persistence backend.
func NewLedger(lake domain.LakeStore, store domain.LedgerStore, logger *slog.Logger) *Ledger {
	return &Ledger{
		lake:   lake,
		store:  store,
		logger: logger.With("component", "ingestion_ledger"),
	}
}

// Unprocessed returns every raw batch for a domain that is not yet in the
// committed set, in the store's deterministic listing order. An unreadable
// committed set degrades to empty, which re-queues everything; downstream
// deduplication makes that safe.
func (l *Ledger) Unprocessed(ctx context.Context, d domain.Domain) ([]string, error) {
	all, err := l.lake.ListRaw(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("list raw batches for %s: %w", d, err)
	}

	processed, err := l.store.Load(ctx, d)
	if err != nil {
		l.logger.Warn("ledger load failed, treating all batches as unprocessed", "domain", d, "error", err)
		processed = map[string]struct{}{}
	}

	var pending []string
	for _, path := range all {
		if _, done := processed[path]; !done {
			pending = append(pending, path)
		}
	}
	return pending, nil
}

// Commit adds batch identifiers to the committed set and persists it. A
// persistence failure propagates: the cleaned output already exists, so the
// caller must fail the run and let the next run reprocess.
func (l *Ledger) Commit(ctx context.Context, d domain.Domain, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	processed, err := l.store.Load(ctx, d)
	if err != nil {
		l.logger.Warn("ledger load failed before commit, rebuilding set from this run", "domain", d, "error", err)
		processed = map[string]struct{}{}
	}
	for _, path := range paths {
		processed[path] = struct{}{}
	}

	if err := l.store.Save(ctx, d, processed); err != nil {
		return fmt.Errorf("persist ledger for %s: %w", d, err)
	}
	l.logger.Info("committed raw batches", "domain", d, "count", len(paths))
	return nil
}
