package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and registry adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record or asset does not exist
//   - ErrConflict: a record with the same natural key already exists
//   - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
