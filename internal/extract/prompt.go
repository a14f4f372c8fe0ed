package extract

// BuildInvoicePrompt returns the fixed extraction instruction for invoice
// documents, with the inbound email text appended as context. The model is
// asked for a strict JSON array of invoice objects; the normalizer repairs
// whatever comes back.
func BuildInvoicePrompt(emailText string) string {
	if emailText == "" {
		emailText = "N/A"
	}
	return `
You are an expert invoice parser. Please analyze the PDF document and email text and extract the required information in a strict JSON format.

The PDF and email may contain an invoice in English or German. Please extract the following information and return ONLY a valid array of JSON objects with this exact structure:

{
    "source": "attachment/email_body",
    "filename": "<original document name>",
    "invoice_number": "<invoice/receipt number>",
    "receiver_name": "<invoice receiver name>",
    "receiver_address": "<invoice receiver full address>",
    "issuer_name": "<invoice issuer name/company name>",
    "issuer_address": "<invoice issuer full address>",
    "total": <total amount as number>,
    "items": [
        {
            "title": "<item title/description>",
            "quantity": "<item quantity>",
            "price": "<item unit price as number>"
        }
    ]
}

IMPORTANT INSTRUCTIONS:
1. Return ONLY the JSON object, no additional text or explanations
2. For German invoices: "Rechnung" means invoice, "Rechnungsnummer" means invoice number, "Gesamt" or "Summe" means total
3. Extract ALL line items with their quantities and individual prices
4. Use numbers (not strings) for price and total fields
5. If information is not available, use empty string "" for strings and 0 for numbers
6. Ensure the JSON is valid and properly formatted
7. For addresses, include the complete address with street, city, postal code if available
8. For quantities, extract the actual number (e.g., "2x" becomes "2")
9. Look carefully at the document structure to identify invoice details, line items, and totals

Remember: Return ONLY the JSON object, nothing else.

EMAIL CONTENT:

` + emailText
}
