package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
	txcontext "redeemer/pkg/platform/tx"
)

// Postgres stores records in the redemptions table; the primary key spans the
// natural key so concurrent writers from several processes cannot both win.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, record *models.Record) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO redemptions (holder, redemption_id, asset_id, reason, redeemed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (holder, redemption_id, asset_id) DO NOTHING
	`,
		record.Holder.String(),
		record.RedemptionID[:],
		record.AssetID.String(),
		reasonBytes(record.Reason),
		record.RedeemedAt,
	)
	if err != nil {
		return fmt.Errorf("insert redemption %s: %w", record.Key(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert redemption %s: %w", record.Key(), err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, key models.Key) (*models.Record, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT holder, redemption_id, asset_id, reason, redeemed_at
		FROM redemptions
		WHERE holder = $1 AND redemption_id = $2 AND asset_id = $3
	`, key.Holder.String(), key.RedemptionID[:], key.AssetID.String())

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find redemption %s: %w", key, err)
	}
	return record, nil
}

func (s *Postgres) ListByHolderAsset(ctx context.Context, holder id.Holder, assetID id.AssetID) ([]*models.Record, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT holder, redemption_id, asset_id, reason, redeemed_at
		FROM redemptions
		WHERE holder = $1 AND asset_id = $2
		ORDER BY seq
	`, holder.String(), assetID.String())
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemptions: %w", err)
	}
	return records, nil
}

// reasonBytes never returns nil, which the driver would send as NULL.
func reasonBytes(reason string) []byte {
	if reason == "" {
		return []byte{}
	}
	return []byte(reason)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	var (
		holder       string
		redemptionID []byte
		assetID      string
		reason       []byte
		record       models.Record
	)
	if err := row.Scan(&holder, &redemptionID, &assetID, &reason, &record.RedeemedAt); err != nil {
		return nil, err
	}
	rid, err := id.RedemptionIDFromBytes(redemptionID)
	if err != nil {
		return nil, err
	}
	aid, err := id.ParseAssetID(assetID)
	if err != nil {
		return nil, err
	}
	record.Holder = id.Holder(holder)
	record.Reason = string(reason)
	record.RedemptionID = rid
	record.AssetID = aid
	return &record, nil
}
