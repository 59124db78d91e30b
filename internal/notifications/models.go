package notifications

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of engine event being published.
type EventType string

const (
	EventBookingCreated       EventType = "BOOKING_CREATED"
	EventBookingConfirmed     EventType = "BOOKING_CONFIRMED"
	EventBookingCancelled     EventType = "BOOKING_CANCELLED"
	EventBookingCompleted     EventType = "BOOKING_COMPLETED"
	EventPaymentSucceeded     EventType = "PAYMENT_SUCCEEDED"
	EventPaymentFailed        EventType = "PAYMENT_FAILED"
	EventRefundProcessed      EventType = "REFUND_PROCESSED"
	EventReconciliationNeeded EventType = "RECONCILIATION_NEEDED"
)

// Event is the structured record emitted after engine state transitions.
// Delivery is fire-and-forget: a publish failure never fails or rolls
// back the operation that produced the event.
type Event struct {
	Type      EventType              `json:"type"`
	EntityID  string                 `json:"entity_id"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType EventType, entityID string, payload map[string]interface{}) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// IsReconciliation reports whether the event signals an invariant
// violation that needs downstream reconciliation.
func (e Event) IsReconciliation() bool {
	return e.Type == EventReconciliationNeeded
}

// ToJSON serializes the event for the wire.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events for one entity to the same partition so
// consumers observe them in order.
func (e Event) PartitionKey() string {
	return e.EntityID
}
