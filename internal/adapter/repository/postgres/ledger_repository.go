package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/user/medallion/internal/domain"
)

const ledgerTableName = "ingestion_ledger"

// LedgerRepository implements domain.LedgerStore on PostgreSQL, for
// deployments where the pipeline host is ephemeral and local state files
// would not survive. One row per (domain, batch_path).
type LedgerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository.
func NewLedgerRepository(db *sql.DB, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger.With("component", "postgres_ledger")}
}

// EnsureSchema creates the ledger table if it does not exist.
func (r *LedgerRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+ledgerTableName+` (
			domain     TEXT NOT NULL,
			batch_path TEXT NOT NULL,
			committed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (domain, batch_path)
		);`)
	if err != nil {
		return fmt.Errorf("failed to ensure ledger schema: %w", err)
	}
	return nil
}

// Load returns the committed set for a domain. Query failures degrade to an
// empty set so the pipeline reprocesses instead of stalling.
func (r *LedgerRepository) Load(ctx context.Context, d domain.Domain) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT batch_path FROM `+ledgerTableName+` WHERE domain = $1`, string(d))
	if err != nil {
		r.logger.Warn("ledger query failed, starting from empty set", "domain", d, "error", err)
		return map[string]struct{}{}, nil
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			r.logger.Warn("ledger row unreadable, starting from empty set", "domain", d, "error", err)
			return map[string]struct{}{}, nil
		}
		set[path] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn("ledger scan failed, starting from empty set", "domain", d, "error", err)
		return map[string]struct{}{}, nil
	}
	return set, nil
}

// Save replaces the committed set for a domain in a single transaction, so
// no reader ever observes a partial set.
func (r *LedgerRepository) Save(ctx context.Context, d domain.Domain, processed map[string]struct{}) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer txn.Rollback() // Rollback is a no-op if Commit() is called

	if _, err := txn.ExecContext(ctx,
		`DELETE FROM `+ledgerTableName+` WHERE domain = $1`, string(d)); err != nil {
		return fmt.Errorf("failed to clear ledger rows: %w", err)
	}

	stmt, err := txn.PrepareContext(ctx, pq.CopyIn(ledgerTableName, "domain", "batch_path"))
	if err != nil {
		return fmt.Errorf("failed to prepare ledger copy: %w", err)
	}
	for path := range processed {
		if _, err := stmt.ExecContext(ctx, string(d), path); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("failed to stage ledger row: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("failed to flush ledger copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close ledger copy: %w", err)
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return nil
}
