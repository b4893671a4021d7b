package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "redeemer/pkg/domain"
)

// PostgresRegistry reads the assets table maintained by the minting system.
// It never writes; burned assets keep their row with burned_at set.
type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) Exists(ctx context.Context, assetID id.AssetID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE asset_id = $1 AND burned_at IS NULL)`,
		assetID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check asset %s: %w", assetID, err)
	}
	return exists, nil
}

func (r *PostgresRegistry) HolderOf(ctx context.Context, assetID id.AssetID) (id.Holder, error) {
	var holder string
	err := r.db.QueryRowContext(ctx,
		`SELECT holder FROM assets WHERE asset_id = $1 AND burned_at IS NULL`,
		assetID.String(),
	).Scan(&holder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &NotFoundError{AssetID: assetID}
		}
		return "", fmt.Errorf("resolve holder of asset %s: %w", assetID, err)
	}
	return id.Holder(holder), nil
}
