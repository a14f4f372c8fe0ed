package port

import "context"

// QueueMessage is one received queue entry carrying a mail notification.
type QueueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// MessageQueue abstracts the inbound notification queue.
type MessageQueue interface {
	Receive(ctx context.Context, max int32) ([]QueueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}
