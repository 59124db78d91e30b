package notifications

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventBookingCreated, "booking-1", map[string]interface{}{"seats": 2})

	assert.Equal(t, EventBookingCreated, event.Type)
	assert.Equal(t, "booking-1", event.EntityID)
	assert.False(t, event.Timestamp.IsZero())
	assert.False(t, event.IsReconciliation())
}

func TestReconciliationEventsAreFlagged(t *testing.T) {
	event := NewEvent(EventReconciliationNeeded, "txn-1", nil)
	assert.True(t, event.IsReconciliation())
}

func TestEventJSONShape(t *testing.T) {
	event := NewEvent(EventPaymentFailed, "txn-9", map[string]interface{}{"reason": "declined"})

	raw, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "PAYMENT_FAILED", decoded["type"])
	assert.Equal(t, "txn-9", decoded["entity_id"])
	assert.NotEmpty(t, decoded["timestamp"])
}

func TestPartitionKeyGroupsByEntity(t *testing.T) {
	a := NewEvent(EventBookingCreated, "booking-1", nil)
	b := NewEvent(EventBookingCancelled, "booking-1", nil)
	assert.Equal(t, a.PartitionKey(), b.PartitionKey())
}
