package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"invomail/internal/domain"
)

// recordCandidate is the loose first phase of record construction: every
// field may be absent, null, or mistyped in model output. materialize applies
// the schema defaults and coercions to produce the final record, so no
// partial record ever leaves this package.
type recordCandidate struct {
	Source          json.RawMessage `json:"source"`
	Filename        json.RawMessage `json:"filename"`
	InvoiceNumber   json.RawMessage `json:"invoice_number"`
	ReceiverName    json.RawMessage `json:"receiver_name"`
	ReceiverAddress json.RawMessage `json:"receiver_address"`
	IssuerName      json.RawMessage `json:"issuer_name"`
	IssuerAddress   json.RawMessage `json:"issuer_address"`
	Total           json.RawMessage `json:"total"`
	Items           json.RawMessage `json:"items"`
}

type itemCandidate struct {
	Title    json.RawMessage `json:"title"`
	Quantity json.RawMessage `json:"quantity"`
	Price    json.RawMessage `json:"price"`
}

// NormalizeResponse extracts the JSON array embedded in raw model output and
// repairs every element into a fully populated InvoiceRecord. The model is
// instructed to return only JSON, but in practice wraps it in prose, so the
// array is located between the first '[' and the last ']'. A missing array,
// invalid JSON, or a non-object element makes the whole batch response
// unusable and returns a MalformedOutputError.
func NormalizeResponse(text string) ([]domain.InvoiceRecord, error) {
	trimmed := strings.TrimSpace(text)
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end < start {
		return nil, NewMalformedOutputError(fmt.Errorf("no JSON array found in response"), trimmed)
	}
	jsonText := trimmed[start : end+1]

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &elements); err != nil {
		return nil, NewMalformedOutputError(fmt.Errorf("invalid JSON from model: %w", err), trimmed)
	}

	records := make([]domain.InvoiceRecord, 0, len(elements))
	for i, el := range elements {
		// Unmarshal alone is not enough: a JSON null decodes into a
		// candidate struct as a no-op and would materialize a synthetic
		// record, so non-object elements are rejected up front.
		if !isJSONObject(el) {
			return nil, NewMalformedOutputError(fmt.Errorf("record %d is not an object", i), trimmed)
		}
		var cand recordCandidate
		if err := json.Unmarshal(el, &cand); err != nil {
			return nil, NewMalformedOutputError(fmt.Errorf("record %d is not an object: %w", i, err), trimmed)
		}
		records = append(records, cand.materialize(i))
	}
	return records, nil
}

// isJSONObject reports whether a raw JSON value is an object. Null and every
// other non-object value fail the check.
func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '{'
		}
	}
	return false
}

// materialize builds the final record with every schema default applied.
// index is the record's position within the batch response, used for the
// unknown_<index>.pdf fallback name.
func (c *recordCandidate) materialize(index int) domain.InvoiceRecord {
	rec := domain.InvoiceRecord{
		Source:          domain.Source(asString(c.Source)),
		InvoiceNumber:   asString(c.InvoiceNumber),
		ReceiverName:    asString(c.ReceiverName),
		ReceiverAddress: asString(c.ReceiverAddress),
		IssuerName:      asString(c.IssuerName),
		IssuerAddress:   asString(c.IssuerAddress),
		Total:           asFloat(c.Total),
		Items:           materializeItems(c.Items),
	}
	if name := asString(c.Filename); name != "" {
		rec.Filename = &name
	} else if rec.Source != domain.SourceEmailBody {
		name := fmt.Sprintf("unknown_%d.pdf", index)
		rec.Filename = &name
	}
	return rec
}

// materializeItems coerces a loose items value to a fully populated line item
// slice: a non-array value becomes empty, non-object entries are dropped, and
// missing sub-fields take their defaults. Never returns nil.
func materializeItems(raw json.RawMessage) []domain.LineItem {
	items := []domain.LineItem{}
	if len(raw) == 0 {
		return items
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return items
	}
	for _, el := range elements {
		if !isJSONObject(el) {
			continue
		}
		var cand itemCandidate
		if err := json.Unmarshal(el, &cand); err != nil {
			continue
		}
		items = append(items, domain.LineItem{
			Title:    asString(cand.Title),
			Quantity: asString(cand.Quantity),
			Price:    asFloat(cand.Price),
		})
	}
	return items
}

// asString coerces a loose JSON value to a string: strings pass through,
// numbers are formatted, everything else (absent, null, booleans, arrays,
// objects) collapses to the empty-string default.
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// asFloat coerces a loose JSON value to a number, accepting numeric strings;
// anything else defaults to 0.
func asFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}
