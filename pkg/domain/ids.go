// Package domain holds the value types shared by every redemption component.
//
// Values are constructed through the Parse functions at trust boundaries
// (HTTP handlers, configuration, storage scans); direct conversion bypasses
// validation and is reserved for tests and trusted code paths.
package domain

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "redeemer/pkg/domain-errors"
)

// maxHolderLength bounds holder identities accepted from callers.
const maxHolderLength = 256

// Holder identifies the account that holds an asset, e.g. an EVM address.
// Holders are opaque and compared by exact equality.
type Holder string

// ParseHolder validates a holder identity from external input.
func ParseHolder(s string) (Holder, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "holder cannot be empty")
	}
	if len(s) > maxHolderLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "holder is too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "holder must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) || r == '\u200b' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "holder contains invalid characters")
		}
	}
	return Holder(s), nil
}

func (h Holder) String() string {
	return string(h)
}

func (h Holder) IsNil() bool {
	return h == ""
}

// RedemptionIDSize is the fixed width of a redemption identifier.
const RedemptionIDSize = 32

// RedemptionID is a fixed-size opaque namespace key (campaign, voucher code).
// Two ids are equal only when every byte matches.
type RedemptionID [RedemptionIDSize]byte

// ParseRedemptionID accepts either the canonical 0x-prefixed 64 digit hex form
// or a short text label. Labels are at most 31 bytes and are stored as their
// UTF-8 bytes right-padded with zeros, so "test" and its padded hex form parse
// to the same id.
func ParseRedemptionID(s string) (RedemptionID, error) {
	var id RedemptionID
	if s == "" {
		return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id cannot be empty")
	}
	if raw, ok := strings.CutPrefix(s, "0x"); ok && len(raw) == 2*RedemptionIDSize {
		b, err := hex.DecodeString(raw)
		if err != nil {
			return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id is not valid hex")
		}
		copy(id[:], b)
		return id, nil
	}
	return RedemptionIDFromText(s)
}

// RedemptionIDFromText encodes a text label into a redemption id. The last byte
// is kept zero so the label stays null-terminated.
func RedemptionIDFromText(label string) (RedemptionID, error) {
	var id RedemptionID
	if label == "" {
		return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id cannot be empty")
	}
	if !utf8.ValidString(label) {
		return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id must be valid UTF-8")
	}
	if len(label) > RedemptionIDSize-1 {
		return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id label exceeds 31 bytes")
	}
	if strings.IndexByte(label, 0) >= 0 {
		return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id label contains a null byte")
	}
	copy(id[:], label)
	return id, nil
}

// RedemptionIDFromBytes copies exactly RedemptionIDSize bytes into an id.
func RedemptionIDFromBytes(b []byte) (RedemptionID, error) {
	var id RedemptionID
	if len(b) != RedemptionIDSize {
		return id, dErrors.New(dErrors.CodeInvalidInput, "redemption id must be 32 bytes")
	}
	copy(id[:], b)
	return id, nil
}

// Hex returns the canonical 0x-prefixed form.
func (r RedemptionID) Hex() string {
	return "0x" + hex.EncodeToString(r[:])
}

func (r RedemptionID) String() string {
	return r.Hex()
}

// Text decodes the id as a label. ok is false when the bytes do not hold a
// zero-padded UTF-8 label.
func (r RedemptionID) Text() (string, bool) {
	n := bytes.IndexByte(r[:], 0)
	if n <= 0 {
		return "", false
	}
	for _, b := range r[n:] {
		if b != 0 {
			return "", false
		}
	}
	label := string(r[:n])
	if !utf8.ValidString(label) {
		return "", false
	}
	return label, true
}

func (r RedemptionID) IsNil() bool {
	return r == RedemptionID{}
}

// MarshalText renders the hex form so ids serialize predictably in JSON.
func (r RedemptionID) MarshalText() ([]byte, error) {
	return []byte(r.Hex()), nil
}

func (r *RedemptionID) UnmarshalText(b []byte) error {
	id, err := ParseRedemptionID(string(b))
	if err != nil {
		return err
	}
	*r = id
	return nil
}

// AssetID identifies a single asset instance in the asset registry.
type AssetID uint64

// ParseAssetID parses a decimal asset id.
func ParseAssetID(s string) (AssetID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "asset id cannot be empty")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "asset id must be an unsigned decimal integer")
	}
	return AssetID(v), nil
}

func (a AssetID) String() string {
	return strconv.FormatUint(uint64(a), 10)
}
