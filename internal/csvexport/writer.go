package csvexport

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"invomail/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (10 columns).
var columns = []string{
	"Invoice",
	"Filename",
	"Source",
	"Invoice Number",
	"Issuer Name",
	"Receiver Name",
	"Total",
	"Line Item Count",
	"Line Items",
	"Error",
}

// Writer wraps csv.Writer for exporting processing results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts processing results to CSV rows and writes them, one
// row per result in input order.
func (w *Writer) WriteResults(results []domain.ProcessingResult) error {
	for i := range results {
		if err := w.csv.Write(resultToRow(i, &results[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// EncodeResults renders processing results as a complete CSV document with
// a leading BOM and header row.
func EncodeResults(results []domain.ProcessingResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(BOM)

	w := NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	if err := w.WriteResults(results); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resultToRow converts a single processing result to a 10-element string
// slice. Error results fill only the identifying columns and the error
// message; the invoice columns are left at their record defaults, which the
// normalizer guarantees are present.
func resultToRow(index int, res *domain.ProcessingResult) []string {
	row := make([]string, len(columns))

	row[0] = strconv.Itoa(index)
	if res.Filename != nil {
		row[1] = *res.Filename
	}
	row[2] = string(res.Source)
	row[9] = res.Error
	if res.Failed() {
		return row
	}

	row[3] = res.InvoiceNumber
	row[4] = res.IssuerName
	row[5] = res.ReceiverName
	row[6] = formatMoney(res.Total)
	row[7] = strconv.Itoa(len(res.Items))
	row[8] = formatItems(res.Items)

	return row
}

// formatItems flattens line items into one cell: "title (Qty: q, Price: p)"
// entries separated by "; ".
func formatItems(items []domain.LineItem) string {
	var b bytes.Buffer
	for i, item := range items {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(item.Title)
		b.WriteString(" (Qty: ")
		b.WriteString(item.Quantity)
		b.WriteString(", Price: ")
		b.WriteString(formatMoney(item.Price))
		b.WriteString(")")
	}
	return b.String()
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
