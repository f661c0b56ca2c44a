package domain

import "context"

// LakeStore defines the interface to the partitioned bronze/silver/gold
// store. This abstracts away the physical layout (local filesystem, object
// storage) from the pipeline stages.
type LakeStore interface {
	// ListRaw returns every raw batch identifier for a domain in
	// deterministic (lexicographic) order.
	ListRaw(ctx context.Context, d Domain) ([]string, error)

	// ReadRaw decodes one raw batch. Malformed content yields a
	// *BatchParseError.
	ReadRaw(ctx context.Context, path string) (*RawBatch, error)

	// SaveRaw places a raw batch file into the current bronze partition
	// and returns its identifier. Used by the generators.
	SaveRaw(ctx context.Context, d Domain, name string, data []byte) (string, error)

	// WriteCleaned persists one new cleaned partition from JSON-encoded
	// records. The partition is visible to ReadAllCleaned only after the
	// call returns.
	WriteCleaned(ctx context.Context, d Domain, records [][]byte) (string, error)

	// ReadAllCleaned returns every cleaned record ever written for a
	// domain, one JSON document per element, in partition order.
	ReadAllCleaned(ctx context.Context, d Domain) ([][]byte, error)

	// WriteSnapshot persists one new, independently named aggregate
	// snapshot. It never overwrites a prior snapshot of the same table.
	WriteSnapshot(ctx context.Context, table string, rows [][]byte) (string, error)
}

// LedgerStore is the durable persistence surface behind the ingestion
// ledger: one set of batch identifiers per domain.
type LedgerStore interface {
	// Load returns the committed set for a domain. A missing or corrupt
	// set loads as empty; the pipeline then safely reprocesses.
	Load(ctx context.Context, d Domain) (map[string]struct{}, error)

	// Save atomically replaces the committed set for a domain.
	Save(ctx context.Context, d Domain, processed map[string]struct{}) error
}
