package audit

import (
	"context"
	"time"

	id "redeemer/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events that form the permanent redemption trail.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational visibility.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category     EventCategory
	Timestamp    time.Time
	Action       string
	Holder       id.Holder
	AssetID      id.AssetID
	RedemptionID id.RedemptionID
	Reason       string
	RequestID    string
}

type AuditEvent string

const (
	EventRedemptionRecorded AuditEvent = "redemption_recorded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRedemptionRecorded: CategoryCompliance,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Append must join any transaction carried by ctx.
type Store interface {
	Append(ctx context.Context, event Event) error
}
