package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"redeemer/internal/redemption/models"
	id "redeemer/pkg/domain"
	"redeemer/pkg/platform/sentinel"
)

const redisKeyPrefix = "redemption"

// createScript writes the record only when its key is absent and indexes it in
// the same step, so a record never exists without its index entry.
var createScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

// Redis stores each record as JSON with no expiry. Keys for one holder and
// asset share a hash tag so the script stays on one cluster slot.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// redisRecord holds Reason as bytes (base64 in JSON) so non-UTF-8 reasons
// round-trip unchanged.
type redisRecord struct {
	Holder       string    `json:"holder"`
	RedemptionID string    `json:"redemption_id"`
	AssetID      string    `json:"asset_id"`
	Reason       []byte    `json:"reason"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

func recordKey(k models.Key) string {
	return fmt.Sprintf("%s:{%s|%s}:%s", redisKeyPrefix, k.Holder, k.AssetID, k.RedemptionID.Hex())
}

func indexKey(holder id.Holder, assetID id.AssetID) string {
	return fmt.Sprintf("%s:{%s|%s}:index", redisKeyPrefix, holder, assetID)
}

func (s *Redis) Create(ctx context.Context, record *models.Record) error {
	key := record.Key()
	payload, err := json.Marshal(redisRecord{
		Holder:       record.Holder.String(),
		RedemptionID: record.RedemptionID.Hex(),
		AssetID:      record.AssetID.String(),
		Reason:       []byte(record.Reason),
		RedeemedAt:   record.RedeemedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal redemption %s: %w", key, err)
	}

	created, err := createScript.Run(ctx, s.client,
		[]string{recordKey(key), indexKey(key.Holder, key.AssetID)},
		payload, record.RedeemedAt.UnixMicro(), key.RedemptionID.Hex(),
	).Int()
	if err != nil {
		return fmt.Errorf("store redemption %s: %w", key, err)
	}
	if created == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Redis) Find(ctx context.Context, key models.Key) (*models.Record, error) {
	raw, err := s.client.Get(ctx, recordKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find redemption %s: %w", key, err)
	}
	return decodeRedisRecord(raw)
}

func (s *Redis) ListByHolderAsset(ctx context.Context, holder id.Holder, assetID id.AssetID) ([]*models.Record, error) {
	ids, err := s.client.ZRange(ctx, indexKey(holder, assetID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		rid, err := id.ParseRedemptionID(raw)
		if err != nil {
			return nil, fmt.Errorf("decode index entry %q: %w", raw, err)
		}
		keys[i] = recordKey(models.Key{Holder: holder, RedemptionID: rid, AssetID: assetID})
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load redemptions: %w", err)
	}
	records := make([]*models.Record, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("index entry %s has no record", keys[i])
		}
		record, err := decodeRedisRecord([]byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func decodeRedisRecord(raw []byte) (*models.Record, error) {
	var stored redisRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode redemption: %w", err)
	}
	rid, err := id.ParseRedemptionID(stored.RedemptionID)
	if err != nil {
		return nil, err
	}
	aid, err := id.ParseAssetID(stored.AssetID)
	if err != nil {
		return nil, err
	}
	return &models.Record{
		Holder:       id.Holder(stored.Holder),
		RedemptionID: rid,
		AssetID:      aid,
		Reason:       string(stored.Reason),
		RedeemedAt:   stored.RedeemedAt,
	}, nil
}
