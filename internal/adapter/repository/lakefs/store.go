package lakefs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/user/medallion/internal/domain"
)

const (
	layerBronze = "bronze"
	layerSilver = "silver"
	layerGold   = "gold"

	filePerm = 0644
	dirPerm  = 0755
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Store is a local-filesystem implementation of domain.LakeStore using
// Hive-style date partitioning:
//
//	<root>/bronze/<domain>/year=YYYY/month=MM/day=DD/<batch>.csv
//	<root>/silver/<domain>/year=YYYY/month=MM/day=DD/<partition>.ndjson
//	<root>/gold/<table>/<snapshot>.ndjson
//
// Batch identifiers are paths relative to the lake root, so the ledger
// stays valid if the root directory moves.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore creates the lake root if needed and returns a Store.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lake root %s: %w", root, err)
	}
	return &Store{
		root:   root,
		logger: logger.With("component", "lake_store"),
	}, nil
}

// ListRaw returns every raw batch under bronze/<domain> in lexicographic
// order. Only .csv and .xlsx files count as batches.
func (s *Store) ListRaw(ctx context.Context, d domain.Domain) ([]string, error) {
	dir := filepath.Join(s.root, layerBronze, string(d))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				return err
			}
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list raw batches for %s: %w", d, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadRaw decodes one raw batch by its identifier. Malformed content is
// reported as a *domain.BatchParseError so the caller can skip and retry
// the batch on a later run.
func (s *Store) ReadRaw(ctx context.Context, path string) (*domain.RawBatch, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to read raw batch %s: %w", path, err)
	}

	var columns []string
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		columns, rows, err = decodeXLSX(data)
	default:
		columns, rows, err = decodeCSV(data)
	}
	if err != nil {
		return nil, &domain.BatchParseError{Path: path, Err: err}
	}

	batch := &domain.RawBatch{Path: path, Columns: columns}
	for _, row := range rows {
		record := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		batch.Rows = append(batch.Rows, record)
	}
	return batch, nil
}

// SaveRaw writes a raw batch file into the current bronze partition.
func (s *Store) SaveRaw(ctx context.Context, d domain.Domain, name string, data []byte) (string, error) {
	dir := s.hivePath(layerBronze, string(d), time.Now().UTC())
	path := filepath.Join(dir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to save raw batch %s: %w", name, err)
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", err
	}
	id := filepath.ToSlash(rel)
	s.logger.Info("saved raw batch", "domain", d, "path", id, "bytes", len(data))
	return id, nil
}

// WriteCleaned persists one new silver partition as NDJSON. The file is
// written to a temp name and renamed, so readers never observe a partial
// partition.
func (s *Store) WriteCleaned(ctx context.Context, d domain.Domain, records [][]byte) (string, error) {
	dir := s.hivePath(layerSilver, string(d), time.Now().UTC())
	name := fmt.Sprintf("%s_%s_%s.ndjson", d, time.Now().UTC().Format("20060102_150405"), shortID())
	path := filepath.Join(dir, name)

	if err := writeFileAtomic(path, joinLines(records)); err != nil {
		return "", fmt.Errorf("failed to write cleaned partition for %s: %w", d, err)
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", err
	}
	id := filepath.ToSlash(rel)
	s.logger.Info("wrote cleaned partition", "domain", d, "path", id, "records", len(records))
	return id, nil
}

// ReadAllCleaned concatenates every silver partition for a domain, one
// JSON document per element, in sorted partition order.
func (s *Store) ReadAllCleaned(ctx context.Context, d domain.Domain) ([][]byte, error) {
	dir := filepath.Join(s.root, layerSilver, string(d))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".ndjson") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cleaned partitions for %s: %w", d, err)
	}
	sort.Strings(files)

	var records [][]byte
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open cleaned partition %s: %w", file, err)
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			records = append(records, append([]byte(nil), line...))
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to scan cleaned partition %s: %w", file, err)
		}
		f.Close()
	}
	return records, nil
}

// WriteSnapshot persists one new gold snapshot. Snapshot names carry a
// timestamp and a unique suffix; prior snapshots are never touched.
func (s *Store) WriteSnapshot(ctx context.Context, table string, rows [][]byte) (string, error) {
	dir := filepath.Join(s.root, layerGold, table)
	name := fmt.Sprintf("%s_%s_%s.ndjson", table, time.Now().UTC().Format("20060102_150405"), shortID())
	path := filepath.Join(dir, name)

	if err := writeFileAtomic(path, joinLines(rows)); err != nil {
		return "", fmt.Errorf("failed to write snapshot for %s: %w", table, err)
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", err
	}
	id := filepath.ToSlash(rel)
	s.logger.Info("wrote gold snapshot", "table", table, "path", id, "rows", len(rows))
	return id, nil
}

func (s *Store) hivePath(layer, d string, t time.Time) string {
	return filepath.Join(
		s.root, layer, d,
		fmt.Sprintf("year=%d", t.Year()),
		fmt.Sprintf("month=%02d", int(t.Month())),
		fmt.Sprintf("day=%02d", t.Day()),
	)
}

func decodeCSV(data []byte) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)
	reader := csv.NewReader(bytes.NewReader(data))
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty batch")
	}
	return all[0], all[1:], nil
}

func decodeXLSX(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty batch")
	}
	return rows[0], rows[1:], nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it, then renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func joinLines(lines [][]byte) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func shortID() string {
	return uuid.NewString()[:8]
}
