// Package asset adapts the external asset registry that owns asset identity,
// existence and current-holder resolution. Redemption code depends only on the
// Registry interface; adapters here back it with an in-memory ledger or the
// minting system's PostgreSQL tables.
package asset

import (
	"context"
	"fmt"

	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
)

// Registry answers existence and holder lookups for assets.
type Registry interface {
	// Exists reports whether the asset is currently tracked (minted, not burned).
	Exists(ctx context.Context, assetID id.AssetID) (bool, error)

	// HolderOf resolves the current holder. It fails with *NotFoundError when
	// the asset was never minted or has been burned.
	HolderOf(ctx context.Context, assetID id.AssetID) (id.Holder, error)
}

// NotFoundError reports a lookup of an asset the registry does not track.
type NotFoundError struct {
	AssetID id.AssetID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset %s not found", e.AssetID)
}

// Is lets callers match the failure with errors.Is(err, sentinel.ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == sentinel.ErrNotFound
}
