package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invomail/internal/extract"
)

func TestBuildInvoicePrompt_EmbedsEmailText(t *testing.T) {
	prompt := extract.BuildInvoicePrompt("Sehr geehrte Damen und Herren, anbei die Rechnung.")

	assert.Contains(t, prompt, "expert invoice parser")
	assert.Contains(t, prompt, "anbei die Rechnung")
	assert.Contains(t, prompt, `"invoice_number"`)
}

func TestBuildInvoicePrompt_EmptyTextBecomesNA(t *testing.T) {
	prompt := extract.BuildInvoicePrompt("")

	assert.Contains(t, prompt, "N/A")
}
