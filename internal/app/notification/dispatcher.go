package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

// allowList names the events the dispatcher reacts to. Everything else on
// the bus is ignored here.
var allowList = []string{
	domain.EventOrderCreated,
	domain.EventInventoryLowStock,
	domain.EventPaymentReceived,
}

// Dispatcher consumes domain events and fans each one out across the
// configured channels. Delivery is best-effort: a channel failure is logged
// and never blocks sibling channels or the publisher.
type Dispatcher struct {
	channels         []interfaces.NotificationChannel
	defaultRecipient string
	logger           *zap.Logger
}

func NewDispatcher(channels []interfaces.NotificationChannel, defaultRecipient string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		channels:         channels,
		defaultRecipient: defaultRecipient,
		logger:           logger,
	}
}

// Register subscribes the dispatcher to its allow-list on the bus.
func (d *Dispatcher) Register(bus *eventbus.Bus) {
	for _, name := range allowList {
		bus.Subscribe(name, d.Handle)
	}
}

// Handle renders one event and sends it through every channel.
func (d *Dispatcher) Handle(ctx context.Context, evt domain.Event) error {
	nc := interfaces.NotificationContext{
		Event:         evt.Name,
		Data:          evt.Payload,
		CorrelationID: evt.CorrelationID,
	}
	nc.Subject, nc.Body = render(evt)

	recipient := d.defaultRecipient
	if r, ok := evt.Payload["recipient"].(string); ok && r != "" {
		recipient = r
	}

	for _, ch := range d.channels {
		if err := ch.Send(ctx, recipient, nc); err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("channel", ch.Name()),
				zap.String("event", evt.Name),
				zap.String("correlation_id", evt.CorrelationID),
				zap.Error(err))
		}
	}
	return nil
}

func render(evt domain.Event) (subject, body string) {
	switch evt.Name {
	case domain.EventOrderCreated:
		subject = "New order received"
		body = fmt.Sprintf("Order %v has been received (total %v)",
			evt.Payload["orderNumber"], evt.Payload["totalAmount"])
	case domain.EventInventoryLowStock:
		subject = "Low stock alert"
		body = fmt.Sprintf("%v is low: %v %v left (threshold %v)",
			evt.Payload["name"], evt.Payload["quantity"], evt.Payload["unit"], evt.Payload["threshold"])
	case domain.EventPaymentReceived:
		subject = "Payment received"
		body = fmt.Sprintf("Payment of %v received for order %v",
			evt.Payload["amount"], evt.Payload["orderNumber"])
	default:
		subject = evt.Name
		body = fmt.Sprintf("Event %s occurred", evt.Name)
	}
	return subject, body
}
