// Package channel holds the notification delivery adapters. Each adapter
// implements a single capability and tolerates its own failures; real
// provider integrations slot in behind the same interface.
package channel

import (
	"context"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type emailChannel struct {
	logger *zap.Logger
}

func NewEmailChannel(logger *zap.Logger) interfaces.NotificationChannel {
	return &emailChannel{logger: logger}
}

func (c *emailChannel) Name() string { return "email" }

func (c *emailChannel) Send(ctx context.Context, recipient string, nc interfaces.NotificationContext) error {
	c.logger.Info("email notification",
		zap.String("to", recipient),
		zap.String("subject", nc.Subject),
		zap.String("body", nc.Body),
		zap.String("correlation_id", nc.CorrelationID))
	return nil
}

type smsChannel struct {
	logger *zap.Logger
}

func NewSMSChannel(logger *zap.Logger) interfaces.NotificationChannel {
	return &smsChannel{logger: logger}
}

func (c *smsChannel) Name() string { return "sms" }

func (c *smsChannel) Send(ctx context.Context, recipient string, nc interfaces.NotificationContext) error {
	c.logger.Info("sms notification",
		zap.String("to", recipient),
		zap.String("body", nc.Body),
		zap.String("correlation_id", nc.CorrelationID))
	return nil
}

type whatsappChannel struct {
	logger *zap.Logger
}

func NewWhatsAppChannel(logger *zap.Logger) interfaces.NotificationChannel {
	return &whatsappChannel{logger: logger}
}

func (c *whatsappChannel) Name() string { return "whatsapp" }

func (c *whatsappChannel) Send(ctx context.Context, recipient string, nc interfaces.NotificationContext) error {
	c.logger.Info("whatsapp notification",
		zap.String("to", recipient),
		zap.String("body", nc.Body),
		zap.String("correlation_id", nc.CorrelationID))
	return nil
}
