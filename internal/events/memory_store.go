package events

import (
	"context"
	"sync"
)

// MemoryProcessedStore is a process-local dedup store for the single-binary
// development mode. It guards against redelivery on the in-memory queue but
// forgets everything on restart.
type MemoryProcessedStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryProcessedStore() *MemoryProcessedStore {
	return &MemoryProcessedStore{seen: map[string]struct{}{}}
}

func (s *MemoryProcessedStore) AlreadyProcessed(_ context.Context, provider, messageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[dedupKey(provider, messageID)]
	return ok, nil
}

func (s *MemoryProcessedStore) MarkProcessed(_ context.Context, provider, messageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dedupKey(provider, messageID)
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}
