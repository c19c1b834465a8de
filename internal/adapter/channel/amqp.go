package channel

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dariga-s/bakehouse/internal/adapter/rabbitmq"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

const notificationsExchange = "notifications_fanout"

type queueMessage struct {
	Event         string         `json:"event"`
	Recipient     string         `json:"recipient"`
	Subject       string         `json:"subject"`
	Body          string         `json:"body"`
	Data          map[string]any `json:"data,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
}

// queueChannel forwards notifications to a fanout exchange so out-of-process
// subscribers (the notify-worker mode) can pick them up.
type queueChannel struct {
	conn rabbitmq.Connection
}

func NewQueueChannel(conn rabbitmq.Connection) interfaces.NotificationChannel {
	return &queueChannel{conn: conn}
}

func (c *queueChannel) Name() string { return "queue" }

func (c *queueChannel) Send(ctx context.Context, recipient string, nc interfaces.NotificationContext) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(notificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(queueMessage{
		Event:         nc.Event,
		Recipient:     recipient,
		Subject:       nc.Subject,
		Body:          nc.Body,
		Data:          nc.Data,
		CorrelationID: nc.CorrelationID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = ch.Publish(notificationsExchange, "", false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		CorrelationId: nc.CorrelationID,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
