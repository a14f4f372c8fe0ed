package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invomail/internal/compose"
	"invomail/internal/domain"
)

func sampleOriginals() []domain.Document {
	return []domain.Document{
		{Data: []byte("%PDF-1.4 one"), Filename: "invoice_march.pdf"},
		{Data: []byte("%PDF-1.4 two"), Filename: "broken.pdf"},
	}
}

func TestResultMessage_AttachmentOrder(t *testing.T) {
	msg, err := compose.ResultMessage("alice@example.com", "Alice <alice@example.com>",
		sampleResults(), sampleOriginals(), compose.Options{})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Contains(t, msg.Body, "Invoice processing complete")

	// Originals in order, then the JSON export
	require.Len(t, msg.Attachments, 3)
	assert.Equal(t, "invoice_march.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, "broken.pdf", msg.Attachments[1].Filename)
	assert.Equal(t, "parsed_invoices.json", msg.Attachments[2].Filename)
	assert.Equal(t, "application/json", msg.Attachments[2].ContentType)
}

func TestResultMessage_SubjectCarriesSender(t *testing.T) {
	msg, err := compose.ResultMessage("alice@example.com", "Alice <alice@example.com>",
		sampleResults(), nil, compose.Options{})

	require.NoError(t, err)
	assert.Equal(t, "Invoice Processing Results - from Alice <alice@example.com>", msg.Subject)
}

func TestResultMessage_SubjectWithoutSender(t *testing.T) {
	msg, err := compose.ResultMessage("fallback@katechat.tech", "",
		sampleResults(), nil, compose.Options{})

	require.NoError(t, err)
	assert.Equal(t, "Invoice Processing Results", msg.Subject)
}

func TestResultMessage_WorkbookOption(t *testing.T) {
	msg, err := compose.ResultMessage("alice@example.com", "",
		sampleResults(), sampleOriginals(), compose.Options{AttachWorkbook: true})

	require.NoError(t, err)
	require.Len(t, msg.Attachments, 4)

	wb := msg.Attachments[3]
	assert.Equal(t, "invoice_summary.xlsx", wb.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", wb.ContentType)
	assert.NotEmpty(t, wb.Data)
}

func TestResultMessage_CSVOption(t *testing.T) {
	msg, err := compose.ResultMessage("alice@example.com", "",
		sampleResults(), sampleOriginals(), compose.Options{AttachCSV: true})

	require.NoError(t, err)
	require.Len(t, msg.Attachments, 4)

	sheet := msg.Attachments[3]
	assert.Equal(t, "parsed_invoices.csv", sheet.Filename)
	assert.Equal(t, "text/csv", sheet.ContentType)
	assert.NotEmpty(t, sheet.Data)
}

func TestResultMessage_NoResults(t *testing.T) {
	msg, err := compose.ResultMessage("alice@example.com", "", nil, nil, compose.Options{})

	require.NoError(t, err)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "parsed_invoices.json", msg.Attachments[0].Filename)
	assert.Equal(t, "[]", string(msg.Attachments[0].Data))
}

func TestErrorMessage(t *testing.T) {
	msg := compose.ErrorMessage("alice@example.com", "something broke")

	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Invoice Processing Error", msg.Subject)
	assert.Equal(t, "something broke", msg.Body)
	assert.Empty(t, msg.Attachments)
}

func TestInfoMessage(t *testing.T) {
	msg := compose.InfoMessage("alice@example.com", "nothing to process")

	assert.Equal(t, "Invoice Processing Results", msg.Subject)
	assert.Equal(t, "nothing to process", msg.Body)
	assert.Empty(t, msg.Attachments)
}
