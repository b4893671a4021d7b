package memory

import (
	"context"
	"sync"

	id "redeemer/pkg/domain"
	audit "redeemer/pkg/platform/audit"
)

// InMemoryStore keeps audit events per holder, append-only.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.Holder][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.Holder][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Holder] = append(s.events[event.Holder], event)
	return nil
}

func (s *InMemoryStore) ListByHolder(_ context.Context, holder id.Holder) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[holder]...), nil
}

// ListAll returns all audit events across all holders.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Event
	for _, events := range s.events {
		all = append(all, events...)
	}
	return all, nil
}
