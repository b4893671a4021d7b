package store

import (
	"context"
	"sync"

	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
)

type holderAsset struct {
	holder  id.Holder
	assetID id.AssetID
}

// InMemory keeps records in a map keyed by the natural key. Entries are only
// ever added.
type InMemory struct {
	mu      sync.RWMutex
	records map[models.Key]models.Record
	order   map[holderAsset][]models.Key
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[models.Key]models.Record),
		order:   make(map[holderAsset][]models.Key),
	}
}

func (s *InMemory) Create(_ context.Context, record *models.Record) error {
	key := record.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[key]; exists {
		return sentinel.ErrConflict
	}
	s.records[key] = *record
	idx := holderAsset{holder: key.Holder, assetID: key.AssetID}
	s.order[idx] = append(s.order[idx], key)
	return nil
}

func (s *InMemory) Find(_ context.Context, key models.Key) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &record, nil
}

func (s *InMemory) ListByHolderAsset(_ context.Context, holder id.Holder, assetID id.AssetID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.order[holderAsset{holder: holder, assetID: assetID}]
	records := make([]*models.Record, 0, len(keys))
	for _, k := range keys {
		record := s.records[k]
		records = append(records, &record)
	}
	return records, nil
}
