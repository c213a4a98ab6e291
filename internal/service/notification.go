package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/config"
)

// Notification is a resolved (recipient, template, data) triple handed to
// the dispatcher. Delivery is fire-and-forget; outcomes are reported back
// to the caller, never thrown as fatal.
type Notification struct {
	Recipient string
	Template  string
	Subject   string
	Data      map[string]any
}

// NotificationDispatcher sends a single notification. Implementations must
// honor the deadline on the supplied context; a timed-out or failed send is
// reported through the returned error.
type NotificationDispatcher interface {
	Send(ctx context.Context, n Notification) error
}

// EmailDispatcher is the default logging email sink. A real SMTP or
// provider-backed implementation satisfies the same interface.
type EmailDispatcher struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
}

// NewEmailDispatcher creates the dispatcher.
func NewEmailDispatcher(cfg config.NotificationConfig, logger *zap.Logger) *EmailDispatcher {
	return &EmailDispatcher{cfg: cfg, logger: logger}
}

// Send logs the outbound email. It respects context cancellation so batch
// timeouts propagate the same way they would for a network send.
func (d *EmailDispatcher) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(d.cfg.EmailFrom) == "" {
		d.logger.Debug("email sender not configured; dropping notification",
			zap.String("template", n.Template),
			zap.String("recipient", n.Recipient))
		return nil
	}
	d.logger.Info("sending email notification",
		zap.String("from", d.cfg.EmailFrom),
		zap.String("to", n.Recipient),
		zap.String("template", n.Template),
		zap.String("subject", n.Subject))
	return nil
}
