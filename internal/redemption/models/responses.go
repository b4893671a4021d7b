package models

import (
	"time"

	id "redeemer/pkg/domain"
)

// RedeemRequest is the body of POST /redemptions. Ids arrive as strings and are
// parsed at the handler boundary.
type RedeemRequest struct {
	RedemptionID string `json:"redemption_id"`
	AssetID      string `json:"asset_id"`
	Reason       string `json:"reason"`
}

type RecordResponse struct {
	Holder          string    `json:"holder"`
	RedemptionID    string    `json:"redemption_id"`
	RedemptionLabel string    `json:"redemption_label,omitempty"`
	AssetID         string    `json:"asset_id"`
	Reason          string    `json:"reason"`
	RedeemedAt      time.Time `json:"redeemed_at"`
}

func NewRecordResponse(r *Record) RecordResponse {
	label, _ := r.RedemptionID.Text()
	return RecordResponse{
		Holder:          r.Holder.String(),
		RedemptionID:    r.RedemptionID.Hex(),
		RedemptionLabel: label,
		AssetID:         r.AssetID.String(),
		Reason:          r.Reason,
		RedeemedAt:      r.RedeemedAt.UTC(),
	}
}

type RedeemedResponse struct {
	Redeemed bool `json:"redeemed"`
}

type RedeemableResponse struct {
	Redeemable bool `json:"redeemable"`
}

type RedemptionIDsResponse struct {
	RedemptionIDs []id.RedemptionID `json:"redemption_ids"`
}

// UnredeemableResponse is the 409 body; it names the colliding key.
type UnredeemableResponse struct {
	Error        string `json:"error"`
	Holder       string `json:"holder"`
	RedemptionID string `json:"redemption_id"`
	AssetID      string `json:"asset_id"`
}

// AssetNotFoundResponse is the 404 body for redemptions of unknown assets.
type AssetNotFoundResponse struct {
	Error   string `json:"error"`
	AssetID string `json:"asset_id"`
}
