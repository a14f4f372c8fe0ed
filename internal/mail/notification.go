package mail

import (
	"encoding/json"
	"fmt"
)

// SNSEnvelope is the outer SNS wrapper around an SES notification, as
// delivered to SQS queues and HTTPS endpoints.
type SNSEnvelope struct {
	Type         string `json:"Type"`
	MessageID    string `json:"MessageId"`
	TopicARN     string `json:"TopicArn"`
	Message      string `json:"Message"`
	SubscribeURL string `json:"SubscribeURL"`
	Timestamp    string `json:"Timestamp"`
}

// Notification is the SES "Received" event, reduced to what the pipeline
// needs: locating the stored raw message and identifying the sender.
type Notification struct {
	NotificationType string              `json:"notificationType"`
	Mail             NotificationMail    `json:"mail"`
	Receipt          NotificationReceipt `json:"receipt"`
}

// NotificationMail mirrors the mail object of an SES notification.
type NotificationMail struct {
	MessageID     string        `json:"messageId"`
	Source        string        `json:"source"`
	CommonHeaders CommonHeaders `json:"commonHeaders"`
}

// CommonHeaders carries the parsed standard headers SES extracted.
type CommonHeaders struct {
	From    []string `json:"from"`
	Subject string   `json:"subject"`
}

// NotificationReceipt mirrors the receipt object of an SES notification.
type NotificationReceipt struct {
	Action ReceiptAction `json:"action"`
}

// ReceiptAction describes where the receipt rule delivered the raw message.
type ReceiptAction struct {
	Type       string `json:"type"`
	BucketName string `json:"bucketName"`
	ObjectKey  string `json:"objectKey"`
}

// DecodeNotification decodes an SES Received notification from a raw queue
// or webhook body, unwrapping the SNS envelope when present.
func DecodeNotification(body []byte) (*Notification, error) {
	var env SNSEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		body = []byte(env.Message)
	}

	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("decoding ses notification: %w", err)
	}
	if n.Mail.MessageID == "" {
		return nil, fmt.Errorf("ses notification missing mail.messageId")
	}
	return &n, nil
}

// Sender resolves the originating address: the parsed From common header
// first, then the envelope source, then the raw From header of the parsed
// message.
func (n *Notification) Sender(rawFrom string) string {
	if len(n.Mail.CommonHeaders.From) > 0 && n.Mail.CommonHeaders.From[0] != "" {
		return n.Mail.CommonHeaders.From[0]
	}
	if n.Mail.Source != "" {
		return n.Mail.Source
	}
	return rawFrom
}

// Location returns the bucket and key holding the raw message, preferring
// the receipt's S3 action and falling back to the configured bucket with the
// conventional key prefix.
func (n *Notification) Location(defaultBucket, keyPrefix string) (bucket, key string) {
	if n.Receipt.Action.BucketName != "" && n.Receipt.Action.ObjectKey != "" {
		return n.Receipt.Action.BucketName, n.Receipt.Action.ObjectKey
	}
	return defaultBucket, keyPrefix + n.Mail.MessageID
}
