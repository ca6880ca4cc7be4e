package email

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notekit/pkg/logger"
)

// DevSender logs messages instead of delivering them.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a sender that writes each message to log.
func NewDevSender(log *slog.Logger) *DevSender {
	return &DevSender{log: log.With(logger.Component("email"))}
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	d.log.InfoContext(ctx, "email not delivered in development",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
		slog.String("body", params.BodyHTML),
	)
	return nil
}
