package noop

import (
	"context"
	"log"

	"invomail/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op MailSender that logs outbound messages
// instead of delivering them. Useful for local runs without SES access.
func NewNoopSender() port.MailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, input port.SendInput) error {
	log.Printf("[NOOP EMAIL] To: %s Subject: %q Attachments: %d Body:\n%s",
		input.To, input.Subject, len(input.Attachments), input.Body)
	return nil
}
