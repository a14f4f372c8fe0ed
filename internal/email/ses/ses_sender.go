package ses

import (
	"bytes"
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/jhillyerd/enmime"

	"invomail/internal/config"
	"invomail/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates an SES-backed MailSender. Messages are delivered as
// raw MIME so PDF and JSON attachments survive intact.
func NewSESSender(cfg *config.EmailConfig) (port.MailSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(awsCfg)
	return &sesSender{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}, nil
}

func (s *sesSender) Send(ctx context.Context, input port.SendInput) error {
	raw, err := buildRawMessage(s.fromName, s.fromAddress, input)
	if err != nil {
		return fmt.Errorf("building raw message: %w", err)
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.fromAddress,
		Destination: &types.Destination{
			ToAddresses: []string{input.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// buildRawMessage renders a SendInput as a complete multipart MIME message.
func buildRawMessage(fromName, fromAddress string, input port.SendInput) ([]byte, error) {
	b := enmime.Builder().
		From(fromName, fromAddress).
		To("", input.To).
		Subject(input.Subject).
		Text([]byte(input.Body))

	for _, att := range input.Attachments {
		b = b.AddAttachment(att.Data, att.ContentType, att.Filename)
	}

	p, err := b.Build()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
