package models

import (
	"fmt"
	"time"

	id "redeemer/pkg/domain"
)

// Key is the natural key of a redemption. At most one Record exists per Key.
type Key struct {
	Holder       id.Holder
	RedemptionID id.RedemptionID
	AssetID      id.AssetID
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Holder, k.RedemptionID.Hex(), k.AssetID)
}

// Record is a completed redemption. Records are immutable once created and
// never deleted.
type Record struct {
	Holder       id.Holder
	RedemptionID id.RedemptionID
	AssetID      id.AssetID
	// Reason is stored verbatim and never interpreted.
	Reason     string
	RedeemedAt time.Time
}

func (r *Record) Key() Key {
	return Key{Holder: r.Holder, RedemptionID: r.RedemptionID, AssetID: r.AssetID}
}

// UnredeemableError reports that the key was already redeemed. It carries the
// exact colliding key so callers can tell it apart from other failures.
type UnredeemableError struct {
	Holder       id.Holder
	RedemptionID id.RedemptionID
	AssetID      id.AssetID
}

func NewUnredeemableError(k Key) *UnredeemableError {
	return &UnredeemableError{Holder: k.Holder, RedemptionID: k.RedemptionID, AssetID: k.AssetID}
}

func (e *UnredeemableError) Error() string {
	return fmt.Sprintf("asset %s already redeemed by %s under %s", e.AssetID, e.Holder, e.RedemptionID.Hex())
}

func (e *UnredeemableError) Key() Key {
	return Key{Holder: e.Holder, RedemptionID: e.RedemptionID, AssetID: e.AssetID}
}
