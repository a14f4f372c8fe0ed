package port

import "context"

// Attachment is one file carried by an outbound message.
type Attachment struct {
	Data        []byte
	Filename    string
	ContentType string
}

// SendInput describes one outbound message.
type SendInput struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// MailSender defines the contract for delivering result and notification
// messages.
type MailSender interface {
	Send(ctx context.Context, input SendInput) error
}
