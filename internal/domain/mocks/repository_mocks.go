package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/medallion/internal/domain"
)

// MockLakeStore is a mock implementation of domain.LakeStore for testing.
type MockLakeStore struct {
	mu sync.Mutex

	RawBatches map[string]*domain.RawBatch // path -> batch; nil entry means parse failure
	RawOrder   map[domain.Domain][]string  // ListRaw result per domain

	CleanedPartitions map[domain.Domain][][][]byte // every WriteCleaned call, in order
	Snapshots         map[string][][][]byte        // table -> every WriteSnapshot call
	SavedRaw          map[string][]byte            // path -> raw bytes from SaveRaw

	ListErr     error
	ReadErr     error
	WriteErr    error
	SnapshotErr error
}

func NewMockLakeStore() *MockLakeStore {
	return &MockLakeStore{
		RawBatches:        make(map[string]*domain.RawBatch),
		RawOrder:          make(map[domain.Domain][]string),
		CleanedPartitions: make(map[domain.Domain][][][]byte),
		Snapshots:         make(map[string][][][]byte),
		SavedRaw:          make(map[string][]byte),
	}
}

func (m *MockLakeStore) ListRaw(ctx context.Context, d domain.Domain) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]string(nil), m.RawOrder[d]...), nil
}

func (m *MockLakeStore) ReadRaw(ctx context.Context, path string) (*domain.RawBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	batch, ok := m.RawBatches[path]
	if !ok || batch == nil {
		return nil, &domain.BatchParseError{Path: path, Err: fmt.Errorf("malformed batch")}
	}
	return batch, nil
}

func (m *MockLakeStore) SaveRaw(ctx context.Context, d domain.Domain, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := string(d) + "/" + name
	m.SavedRaw[path] = append([]byte(nil), data...)
	m.RawOrder[d] = append(m.RawOrder[d], path)
	return path, nil
}

func (m *MockLakeStore) WriteCleaned(ctx context.Context, d domain.Domain, records [][]byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return "", m.WriteErr
	}
	m.CleanedPartitions[d] = append(m.CleanedPartitions[d], records)
	return fmt.Sprintf("silver/%s/partition-%d", d, len(m.CleanedPartitions[d])), nil
}

func (m *MockLakeStore) ReadAllCleaned(ctx context.Context, d domain.Domain) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	var all [][]byte
	for _, partition := range m.CleanedPartitions[d] {
		all = append(all, partition...)
	}
	return all, nil
}

func (m *MockLakeStore) WriteSnapshot(ctx context.Context, table string, rows [][]byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotErr != nil {
		return "", m.SnapshotErr
	}
	m.Snapshots[table] = append(m.Snapshots[table], rows)
	return fmt.Sprintf("gold/%s/snapshot-%d", table, len(m.Snapshots[table])), nil
}

// MockLedgerStore is a mock implementation of domain.LedgerStore for testing.
type MockLedgerStore struct {
	mu sync.Mutex

	Sets      map[domain.Domain]map[string]struct{}
	SaveCalls int
	LoadErr   error
	SaveErr   error
}

func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{Sets: make(map[domain.Domain]map[string]struct{})}
}

func (m *MockLedgerStore) Load(ctx context.Context, d domain.Domain) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	out := make(map[string]struct{}, len(m.Sets[d]))
	for k := range m.Sets[d] {
		out[k] = struct{}{}
	}
	return out, nil
}

func (m *MockLedgerStore) Save(ctx context.Context, d domain.Domain, processed map[string]struct{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	set := make(map[string]struct{}, len(processed))
	for k := range processed {
		set[k] = struct{}{}
	}
	m.Sets[d] = set
	m.SaveCalls++
	return nil
}
