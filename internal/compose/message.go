package compose

import (
	"fmt"
	"log"

	"invomail/internal/csvexport"
	"invomail/internal/domain"
	"invomail/internal/port"
)

const (
	resultsSubject = "Invoice Processing Results"
	errorSubject   = "Invoice Processing Error"

	csvFilename = "parsed_invoices.csv"

	contentTypeJSON     = "application/json"
	contentTypeCSV      = "text/csv"
	contentTypeWorkbook = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Options controls optional parts of a results message.
type Options struct {
	// AttachWorkbook adds an Excel summary alongside the JSON attachment.
	AttachWorkbook bool
	// AttachCSV adds a flat CSV summary alongside the JSON attachment.
	AttachCSV bool
}

// ResultMessage assembles the outbound results email: the plain-text report,
// the original PDF documents, and the parsed results as a JSON attachment.
// Optional summary attachments that fail to build are logged and skipped
// rather than failing the whole message.
func ResultMessage(to, sender string, results []domain.ProcessingResult, originals []domain.Document, opts Options) (*port.SendInput, error) {
	subject := resultsSubject
	if sender != "" {
		subject = fmt.Sprintf("%s - from %s", resultsSubject, sender)
	}

	msg := &port.SendInput{
		To:      to,
		Subject: subject,
		Body:    BuildReport(results, sender),
	}

	for _, doc := range originals {
		msg.Attachments = append(msg.Attachments, port.Attachment{
			Data:        doc.Data,
			Filename:    doc.Filename,
			ContentType: domain.ContentTypePDF,
		})
	}

	data, err := EncodeResults(results)
	if err != nil {
		return nil, fmt.Errorf("compose.ResultMessage: %w", err)
	}
	msg.Attachments = append(msg.Attachments, port.Attachment{
		Data:        data,
		Filename:    resultsFilename,
		ContentType: contentTypeJSON,
	})

	if opts.AttachCSV {
		data, err := csvexport.EncodeResults(results)
		if err != nil {
			log.Printf("compose.ResultMessage: csv build failed, skipping attachment: %v", err)
		} else {
			msg.Attachments = append(msg.Attachments, port.Attachment{
				Data:        data,
				Filename:    csvFilename,
				ContentType: contentTypeCSV,
			})
		}
	}

	if opts.AttachWorkbook {
		wb, err := BuildWorkbook(results)
		if err != nil {
			log.Printf("compose.ResultMessage: workbook build failed, skipping attachment: %v", err)
		} else {
			msg.Attachments = append(msg.Attachments, port.Attachment{
				Data:        wb,
				Filename:    workbookFilename,
				ContentType: contentTypeWorkbook,
			})
		}
	}

	return msg, nil
}

// ErrorMessage assembles the notification sent when processing fails outright.
func ErrorMessage(to, body string) *port.SendInput {
	return &port.SendInput{
		To:      to,
		Subject: errorSubject,
		Body:    body,
	}
}

// InfoMessage assembles a plain informational reply, such as the response to
// an email that carried no parseable documents.
func InfoMessage(to, body string) *port.SendInput {
	return &port.SendInput{
		To:      to,
		Subject: resultsSubject,
		Body:    body,
	}
}
