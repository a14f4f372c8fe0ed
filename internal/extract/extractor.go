package extract

import (
	"context"
	"fmt"
	"log"

	"invomail/internal/domain"
	"invomail/internal/port"
)

// MaxDocumentsPerRequest is the provider-imposed limit on documents per
// model call. Larger inputs are split into consecutive batches.
const MaxDocumentsPerRequest = 5

// Extractor plans batched model submissions: it partitions documents into
// batches, submits each with the shared extraction prompt, and merges the
// normalized per-batch results in submission order.
type Extractor struct {
	model port.DocumentModel
}

// NewExtractor creates an Extractor on top of a document model.
func NewExtractor(model port.DocumentModel) *Extractor {
	return &Extractor{model: model}
}

// Extract processes all batches fail-fast: the first failed submission or
// malformed response aborts the remaining batches and propagates. Results
// preserve the order in which documents were submitted.
func (e *Extractor) Extract(ctx context.Context, docs []domain.Document, emailText string) ([]domain.InvoiceRecord, error) {
	prompt := BuildInvoicePrompt(emailText)
	var records []domain.InvoiceRecord
	for _, batch := range batchDocuments(docs) {
		recs, err := e.submitBatch(ctx, prompt, batch)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// Run processes all batches with per-document failure isolation: a failed
// batch degrades into one error result per document in that batch, and the
// remaining batches still run. Successful records and error descriptors keep
// submission order.
func (e *Extractor) Run(ctx context.Context, docs []domain.Document, emailText string) []domain.ProcessingResult {
	prompt := BuildInvoicePrompt(emailText)
	var results []domain.ProcessingResult
	for _, batch := range batchDocuments(docs) {
		recs, err := e.submitBatch(ctx, prompt, batch)
		if err != nil {
			log.Printf("extract.Run: batch of %d document(s) failed: %v", len(batch), err)
			for _, doc := range batch {
				results = append(results, domain.NewErrorResult(doc.Filename, err.Error()))
			}
			continue
		}
		for _, rec := range recs {
			results = append(results, domain.ProcessingResult{InvoiceRecord: rec})
		}
	}
	return results
}

func (e *Extractor) submitBatch(ctx context.Context, prompt string, batch []domain.Document) ([]domain.InvoiceRecord, error) {
	out, err := e.model.Extract(ctx, port.ExtractInput{
		Prompt:    prompt,
		Documents: toModelDocuments(batch),
	})
	if err != nil {
		return nil, fmt.Errorf("submitting batch of %d document(s): %w", len(batch), err)
	}
	return NormalizeResponse(out.Text)
}

// batchDocuments splits docs into consecutive groups of at most
// MaxDocumentsPerRequest, preserving order.
func batchDocuments(docs []domain.Document) [][]domain.Document {
	var batches [][]domain.Document
	for start := 0; start < len(docs); start += MaxDocumentsPerRequest {
		end := start + MaxDocumentsPerRequest
		if end > len(docs) {
			end = len(docs)
		}
		batches = append(batches, docs[start:end])
	}
	return batches
}

func toModelDocuments(batch []domain.Document) []port.ModelDocument {
	docs := make([]port.ModelDocument, 0, len(batch))
	for _, d := range batch {
		docs = append(docs, port.ModelDocument{
			Data: d.Data,
			Name: SanitizeDocumentName(d.Filename),
		})
	}
	return docs
}
