package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"invomail/internal/compose"
	"invomail/internal/domain"
	"invomail/internal/extract"
	"invomail/internal/mail"
	"invomail/internal/port"
)

const contentTypeJSON = "application/json"

// ProcessorConfig holds pipeline behavior settings.
type ProcessorConfig struct {
	// Bucket and KeyPrefix locate raw messages when the notification's
	// receipt action does not name them.
	Bucket    string
	KeyPrefix string
	// FallbackAddress receives notifications when no sender can be resolved.
	FallbackAddress string
	ArchiveResults  bool
	ArchivePrefix   string
	AttachWorkbook  bool
	AttachCSV       bool
}

// Processor defines the inbound message processing contract: one delivery
// notification in, one outbound notification out.
type Processor interface {
	ProcessNotification(ctx context.Context, body []byte) (domain.Outcome, error)
}

type processor struct {
	storage   port.ObjectStorage
	sender    port.MailSender
	extractor *extract.Extractor
	cfg       ProcessorConfig
}

// NewProcessor creates a new Processor implementation.
func NewProcessor(storage port.ObjectStorage, sender port.MailSender, extractor *extract.Extractor, cfg ProcessorConfig) Processor {
	return &processor{
		storage:   storage,
		sender:    sender,
		extractor: extractor,
		cfg:       cfg,
	}
}

// ProcessNotification runs the whole pipeline for one delivery notification:
// decode, fetch the raw message, extract documents, run the model, and send
// the results email. Any failure before results are composed is converted
// into a best-effort error notification so no outcome goes silent.
func (p *processor) ProcessNotification(ctx context.Context, body []byte) (domain.Outcome, error) {
	n, err := mail.DecodeNotification(body)
	if err != nil {
		p.notifyFailure(ctx, p.cfg.FallbackAddress, err)
		return domain.OutcomeFailed, fmt.Errorf("processor.ProcessNotification: %w", err)
	}

	outcome, sender, err := p.process(ctx, n)
	if err != nil {
		p.notifyFailure(ctx, p.recipient(sender), err)
		return domain.OutcomeFailed, fmt.Errorf("processor.ProcessNotification: message %s: %w", n.Mail.MessageID, err)
	}
	return outcome, nil
}

// process runs the pipeline stages for a decoded notification. It returns
// the resolved sender alongside the outcome so the caller can address a
// failure notification even when a late stage fails.
func (p *processor) process(ctx context.Context, n *mail.Notification) (domain.Outcome, string, error) {
	bucket, key := n.Location(p.cfg.Bucket, p.cfg.KeyPrefix)

	log.Printf("processor.process: message %s: fetching raw mail from s3://%s/%s", n.Mail.MessageID, bucket, key)
	raw, err := p.storage.Download(ctx, bucket, key)
	if err != nil {
		return domain.OutcomeFailed, n.Sender(""), fmt.Errorf("downloading raw message: %w", err)
	}

	msg, err := mail.ParseMessage(raw)
	if err != nil {
		return domain.OutcomeFailed, n.Sender(""), fmt.Errorf("parsing message: %w", err)
	}

	sender := n.Sender(msg.Sender)
	to := p.recipient(sender)
	if to == "" {
		return domain.OutcomeFailed, sender, domain.ErrNoRecipient
	}

	if len(msg.Documents) == 0 {
		log.Printf("processor.process: message %s: no PDF documents found", n.Mail.MessageID)
		info := compose.InfoMessage(to, compose.BuildNoDocumentsBody())
		if err := p.deliver(ctx, info); err != nil {
			log.Printf("processor.process: message %s: %v", n.Mail.MessageID, err)
			return domain.OutcomeNoDocuments, sender, nil
		}
		return domain.OutcomeNoDocuments, sender, nil
	}

	log.Printf("processor.process: message %s: extracting %d document(s) from %s",
		n.Mail.MessageID, len(msg.Documents), sender)
	results := p.extractor.Run(ctx, msg.Documents, msg.Text)

	out, err := compose.ResultMessage(to, sender, results, msg.Documents, compose.Options{
		AttachWorkbook: p.cfg.AttachWorkbook,
		AttachCSV:      p.cfg.AttachCSV,
	})
	if err != nil {
		return domain.OutcomeFailed, sender, fmt.Errorf("composing results: %w", err)
	}

	if p.cfg.ArchiveResults {
		p.archive(ctx, n.Mail.MessageID, results)
	}

	// A delivery failure does not undo completed extraction work. The
	// outcome stays successful and the error is surfaced for logging.
	if err := p.deliver(ctx, out); err != nil {
		log.Printf("processor.process: message %s: %v", n.Mail.MessageID, err)
		return domain.OutcomeResults, sender, nil
	}

	log.Printf("processor.process: message %s: sent %d result(s) to %s", n.Mail.MessageID, len(results), to)
	return domain.OutcomeResults, sender, nil
}

// recipient picks the outbound address: the resolved sender, then the
// configured fallback.
func (p *processor) recipient(sender string) string {
	if sender != "" {
		return sender
	}
	return p.cfg.FallbackAddress
}

// deliver sends an outbound message, tagging failures as delivery errors.
func (p *processor) deliver(ctx context.Context, msg *port.SendInput) error {
	if err := p.sender.Send(ctx, *msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

// notifyFailure sends a best-effort plain-text error notification. Failures
// to deliver the notification itself are only logged.
func (p *processor) notifyFailure(ctx context.Context, to string, cause error) {
	if to == "" {
		log.Printf("processor.notifyFailure: no recipient available, dropping notification for: %v", cause)
		return
	}
	msg := compose.ErrorMessage(to, compose.BuildErrorBody(cause.Error()))
	if err := p.deliver(ctx, msg); err != nil {
		log.Printf("processor.notifyFailure: %v", err)
	}
}

// archive uploads the JSON export next to the raw mail. Archive failures
// never fail the run.
func (p *processor) archive(ctx context.Context, messageID string, results []domain.ProcessingResult) {
	data, err := compose.EncodeResults(results)
	if err != nil {
		log.Printf("processor.archive: message %s: %v", messageID, err)
		return
	}

	key := p.cfg.ArchivePrefix + messageID + ".json"
	_, err = p.storage.Upload(ctx, port.UploadInput{
		Bucket:      p.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentTypeJSON,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("processor.archive: message %s: uploading %s: %v", messageID, key, err)
		return
	}
	log.Printf("processor.archive: message %s: archived results at s3://%s/%s", messageID, p.cfg.Bucket, key)
}
