package domain

// Source identifies where an invoice record was extracted from.
type Source string

const (
	SourceAttachment Source = "attachment"
	SourceEmailBody  Source = "email_body"
)

// Outcome classifies a single pipeline run. Every outcome, including the
// zero-work one, produces exactly one outbound notification.
type Outcome string

const (
	OutcomeResults     Outcome = "results"
	OutcomeNoDocuments Outcome = "no_documents"
	OutcomeFailed      Outcome = "failed"
)

// ContentTypePDF marks a MIME part as a PDF document regardless of its
// disposition.
const ContentTypePDF = "application/pdf"
