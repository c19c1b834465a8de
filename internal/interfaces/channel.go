package interfaces

import "context"

// NotificationContext is the rendered content handed to every channel.
type NotificationContext struct {
	Event         string
	Subject       string
	Body          string
	Data          map[string]any
	CorrelationID string
}

// NotificationChannel is a single delivery capability. Implementations are
// failure-tolerant: a channel's delivery error never blocks sibling channels.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, recipient string, nc NotificationContext) error
}
