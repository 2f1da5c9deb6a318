package store

import (
	"context"
	"sync"
)

// MemoryStore keeps run history for the lifetime of the process. It backs
// the spectator /runs endpoint when no database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []*RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(_ context.Context, rec *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.runs = append(s.runs, &cp)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*RunRecord, 0, min(limit, len(s.runs)))
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.runs[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
