package store

import (
	"context"
	"sync"

	"github.com/evisynth/nmakit/pkg/observability"
)

// MemoryStore is an in-process assessment store for development and
// tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *rec
	s.records[rec.ID] = &clone
	observability.Store().OnStoreSet(ctx, "memory", len(rec.Payload))
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		observability.Store().OnStoreMiss(ctx, "memory")
		return nil, notFound(id)
	}
	observability.Store().OnStoreHit(ctx, "memory")
	clone := *rec
	return &clone, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}
