package ses

import (
	"bytes"
	"testing"

	"github.com/jhillyerd/enmime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invomail/internal/port"
)

func TestBuildRawMessage_RoundTrip(t *testing.T) {
	input := port.SendInput{
		To:      "alice@example.com",
		Subject: "Invoice Processing Results - from Alice <alice@example.com>",
		Body:    "Hello,\n\nInvoice processing complete.",
		Attachments: []port.Attachment{
			{Data: []byte("%PDF-1.4 test"), Filename: "invoice_march.pdf", ContentType: "application/pdf"},
			{Data: []byte(`[{"invoice_number": "INV-001"}]`), Filename: "parsed_invoices.json", ContentType: "application/json"},
		},
	}

	raw, err := buildRawMessage("Invoice Processing Bot", "invoice-bot@katechat.tech", input)
	require.NoError(t, err)

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Contains(t, env.GetHeader("From"), "invoice-bot@katechat.tech")
	assert.Contains(t, env.GetHeader("To"), "alice@example.com")
	assert.Equal(t, input.Subject, env.GetHeader("Subject"))
	assert.Contains(t, env.Text, "Invoice processing complete")

	require.Len(t, env.Attachments, 2)
	assert.Equal(t, "invoice_march.pdf", env.Attachments[0].FileName)
	assert.Equal(t, []byte("%PDF-1.4 test"), env.Attachments[0].Content)
	assert.Equal(t, "parsed_invoices.json", env.Attachments[1].FileName)
}

func TestBuildRawMessage_NoAttachments(t *testing.T) {
	input := port.SendInput{
		To:      "alice@example.com",
		Subject: "Invoice Processing Error",
		Body:    "Hello,\n\nInvoice processing failed.",
	}

	raw, err := buildRawMessage("Invoice Processing Bot", "invoice-bot@katechat.tech", input)
	require.NoError(t, err)

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, env.Attachments)
	assert.Contains(t, env.Text, "processing failed")
}
