package notifier

import (
	"context"

	"careerhub/logger"
)

// ConsoleSender logs messages instead of delivering them.
type ConsoleSender struct {
	log *logger.Logger
}

func NewConsoleSender(log *logger.Logger) *ConsoleSender {
	return &ConsoleSender{log: log.With("sender", "console")}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email",
		"id", msg.NotificationID,
		"template", msg.Template,
		"to", msg.To.Email,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
