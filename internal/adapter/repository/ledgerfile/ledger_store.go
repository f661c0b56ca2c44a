package ledgerfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/user/medallion/internal/domain"
)

const (
	filePerm = 0644
	dirPerm  = 0755
)

// Store persists the per-domain processed set as a sorted JSON array at
// <dir>/<domain>_processed.json. Saves replace the file atomically via a
// temp file and rename, so a crash never leaves a half-written set.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates the state directory if needed and returns a Store.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create ledger state directory %s: %w", dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With("component", "ledger_store"),
	}, nil
}

// Load reads the committed set for a domain. A missing or unreadable file
// loads as an empty set: the pipeline then reprocesses, which downstream
// deduplication tolerates.
func (s *Store) Load(ctx context.Context, d domain.Domain) (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path(d))
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		s.logger.Warn("ledger state unreadable, starting from empty set", "domain", d, "error", err)
		return map[string]struct{}{}, nil
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		s.logger.Warn("ledger state corrupt, starting from empty set", "domain", d, "error", err)
		return map[string]struct{}{}, nil
	}

	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set, nil
}

// Save atomically replaces the committed set for a domain.
func (s *Store) Save(ctx context.Context, d domain.Domain, processed map[string]struct{}) error {
	paths := make([]string, 0, len(processed))
	for p := range processed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger state for %s: %w", d, err)
	}

	path := s.path(d)
	tmp, err := os.CreateTemp(s.dir, ".tmp-ledger-*")
	if err != nil {
		return fmt.Errorf("failed to stage ledger state for %s: %w", d, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger state for %s: %w", d, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync ledger state for %s: %w", d, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger state for %s: %w", d, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod ledger state for %s: %w", d, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger state for %s: %w", d, err)
	}
	return nil
}

func (s *Store) path(d domain.Domain) string {
	return filepath.Join(s.dir, string(d)+"_processed.json")
}
