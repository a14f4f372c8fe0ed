package domain

// Document is a single PDF payload extracted from an inbound message.
// Immutable once extracted; Data is the decoded attachment body.
type Document struct {
	Data     []byte
	Filename string
}

// LineItem is one line of an invoice. Quantity stays a string to preserve
// literal forms like "2x".
type LineItem struct {
	Title    string  `json:"title"`
	Quantity string  `json:"quantity"`
	Price    float64 `json:"price"`
}

// InvoiceRecord is the normalized extraction result for one document or for
// invoice data found in the email body itself. Every record leaving the
// normalizer has all fields populated: strings default to "", Total to 0,
// Items to an empty slice. Filename is nil only for email-body records.
type InvoiceRecord struct {
	Source          Source     `json:"source"`
	Filename        *string    `json:"filename"`
	InvoiceNumber   string     `json:"invoice_number"`
	ReceiverName    string     `json:"receiver_name"`
	ReceiverAddress string     `json:"receiver_address"`
	IssuerName      string     `json:"issuer_name"`
	IssuerAddress   string     `json:"issuer_address"`
	Total           float64    `json:"total"`
	Items           []LineItem `json:"items"`
}

// ProcessingResult is the per-document outcome consumed by the composer:
// a normalized invoice record on success, or an error descriptor with the
// record fields zeroed. Results live for a single message exchange and are
// never persisted.
type ProcessingResult struct {
	InvoiceRecord
	Error string `json:"error,omitempty"`
}

// Failed reports whether the result is an error descriptor.
func (r *ProcessingResult) Failed() bool {
	return r.Error != ""
}

// NewErrorResult builds an error descriptor for a document that could not be
// processed. The record fields stay at their defaults (empty parsed data).
func NewErrorResult(filename, errMsg string) ProcessingResult {
	var name *string
	if filename != "" {
		name = &filename
	}
	return ProcessingResult{
		InvoiceRecord: InvoiceRecord{
			Filename: name,
			Items:    []LineItem{},
		},
		Error: errMsg,
	}
}

// InboundEmail is one parsed inbound message handed to the pipeline.
type InboundEmail struct {
	MessageID string
	Sender    string
	Subject   string
	Text      string
	Documents []Document
}
