package grid

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// InMemoryRowStore keeps table snapshots for the life of the process.
type InMemoryRowStore struct {
	mu   sync.RWMutex
	data map[string][]Row
}

// NewInMemoryRowStore creates an empty row store.
func NewInMemoryRowStore() *InMemoryRowStore {
	return &InMemoryRowStore{data: make(map[string][]Row)}
}

// LoadRows returns a copy of the stored snapshot.
func (s *InMemoryRowStore) LoadRows(_ context.Context, table string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.data[table]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return cloneRows(rows), nil
}

// SaveRows replaces the snapshot for a table.
func (s *InMemoryRowStore) SaveRows(_ context.Context, table string, rows []Row) error {
	if table == "" {
		return fmt.Errorf("grid: row store requires a table code")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[table] = cloneRows(rows)
	return nil
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = Row{ID: row.ID, Values: maps.Clone(row.Values)}
	}
	return out
}
