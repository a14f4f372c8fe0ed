package compose

import (
	"bytes"
	"encoding/json"
	"fmt"

	"invomail/internal/domain"
)

// resultsFilename is the attachment name for the machine-readable results.
const resultsFilename = "parsed_invoices.json"

// EncodeResults serializes processing results as two-space indented JSON.
// Non-ASCII text stays literal rather than escaped, and a nil slice encodes
// as an empty array so the attachment is always valid JSON.
func EncodeResults(results []domain.ProcessingResult) ([]byte, error) {
	if results == nil {
		results = []domain.ProcessingResult{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
