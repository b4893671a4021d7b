package asset

import (
	"context"
	"fmt"
	"sync"

	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
)

// Ledger is an in-memory asset registry for development and tests. It models
// the minting contract closely enough to drive redemptions: ids are allocated
// sequentially from 1, burned assets stop existing.
type Ledger struct {
	mu      sync.RWMutex
	holders map[id.AssetID]id.Holder
	nextID  id.AssetID
}

func NewLedger() *Ledger {
	return &Ledger{
		holders: make(map[id.AssetID]id.Holder),
		nextID:  1,
	}
}

// Mint allocates the next asset id to holder.
func (l *Ledger) Mint(_ context.Context, holder id.Holder) (id.AssetID, error) {
	if holder.IsNil() {
		return 0, fmt.Errorf("mint: holder is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		if _, taken := l.holders[l.nextID]; !taken {
			break
		}
		l.nextID++
	}
	assetID := l.nextID
	l.holders[assetID] = holder
	l.nextID++
	return assetID, nil
}

// MintID assigns a specific asset id. It fails with sentinel.ErrConflict when
// the id is already minted.
func (l *Ledger) MintID(_ context.Context, assetID id.AssetID, holder id.Holder) error {
	if holder.IsNil() {
		return fmt.Errorf("mint %s: holder is required", assetID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.holders[assetID]; taken {
		return fmt.Errorf("mint %s: %w", assetID, sentinel.ErrConflict)
	}
	l.holders[assetID] = holder
	return nil
}

// Transfer moves an asset to a new holder.
func (l *Ledger) Transfer(_ context.Context, assetID id.AssetID, to id.Holder) error {
	if to.IsNil() {
		return fmt.Errorf("transfer %s: recipient is required", assetID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.holders[assetID]; !ok {
		return &NotFoundError{AssetID: assetID}
	}
	l.holders[assetID] = to
	return nil
}

// Burn destroys an asset. Its id is never reallocated by Mint.
func (l *Ledger) Burn(_ context.Context, assetID id.AssetID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.holders[assetID]; !ok {
		return &NotFoundError{AssetID: assetID}
	}
	delete(l.holders, assetID)
	if assetID >= l.nextID {
		l.nextID = assetID + 1
	}
	return nil
}

func (l *Ledger) Exists(_ context.Context, assetID id.AssetID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.holders[assetID]
	return ok, nil
}

func (l *Ledger) HolderOf(_ context.Context, assetID id.AssetID) (id.Holder, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	holder, ok := l.holders[assetID]
	if !ok {
		return "", &NotFoundError{AssetID: assetID}
	}
	return holder, nil
}
