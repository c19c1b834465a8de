package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event names consumed and produced by the core.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.statusChanged"
	EventOrderDelivered     = "order.delivered"
	EventInventoryLowStock  = "inventory.lowStock"
	EventPaymentReceived    = "payment.received"
	EventPaymentRefunded    = "payment.refunded"
)

// Event is an immutable fact broadcast after a state change. Delivery is
// best-effort and in-memory only; nothing is persisted or replayed.
type Event struct {
	ID            string
	Name          string
	Payload       map[string]any
	OccurredAt    time.Time
	CorrelationID string // propagated from the originating request for cause-effect tracing
}

// NewEvent stamps a fresh event with an id and timestamp.
func NewEvent(name string, payload map[string]any, correlationID string) Event {
	return Event{
		ID:            uuid.NewString(),
		Name:          name,
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
		CorrelationID: correlationID,
	}
}
