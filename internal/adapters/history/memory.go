// Package history provides query history store adapters.
// Clean Architecture: Adapters implementing ports.HistoryStore.
package history

import (
	"context"
	"sync"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// InMemoryStore keeps the query history in a bounded ring.
// Open-Closed: Can be replaced with the SQLite or bbolt store without changing usecases.
type InMemoryStore struct {
	mu       sync.RWMutex
	records  []entities.QueryRecord
	capacity int
}

// NewInMemoryStore creates a store that retains at most capacity records.
// A capacity of zero or less keeps everything.
func NewInMemoryStore(capacity int) *InMemoryStore {
	return &InMemoryStore{capacity: capacity}
}

// Record appends rec, evicting the oldest entry when full.
func (s *InMemoryStore) Record(ctx context.Context, rec entities.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if s.capacity > 0 && len(s.records) > s.capacity {
		s.records = append(s.records[:0], s.records[len(s.records)-s.capacity:]...)
	}
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *InMemoryStore) Recent(ctx context.Context, limit int) ([]entities.QueryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entities.QueryRecord, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Close is a no-op.
func (s *InMemoryStore) Close() error { return nil }
