// Package store persists redemption records. Every backend enforces key
// uniqueness atomically in Create and reports a duplicate as
// sentinel.ErrConflict; lookups of absent keys return sentinel.ErrNotFound.
package store

import (
	"context"

	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
)

// Store is implemented by InMemory, Postgres and Redis.
type Store interface {
	Create(ctx context.Context, record *models.Record) error
	Find(ctx context.Context, key models.Key) (*models.Record, error)
	ListByHolderAsset(ctx context.Context, holder id.Holder, assetID id.AssetID) ([]*models.Record, error)
}

var (
	_ Store = (*InMemory)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*Redis)(nil)
)
