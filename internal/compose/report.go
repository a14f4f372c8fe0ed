package compose

import (
	"fmt"
	"strconv"
	"strings"

	"invomail/internal/domain"
)

// fallbackFilename is shown in the report for records without a filename.
const fallbackFilename = "unknown.pdf"

// BuildReport renders the plain-text body of a results email: a greeting,
// one numbered section per processing result, and a fixed footer listing
// the attachments. Failed results show the error message in place of the
// invoice fields.
func BuildReport(results []domain.ProcessingResult, sender string) string {
	var b strings.Builder

	b.WriteString("Hello,\n\n")
	if sender != "" {
		fmt.Fprintf(&b, "Invoice processing complete for email from: %s\n\n", sender)
	} else {
		b.WriteString("Invoice processing complete. Please find the results below:\n\n")
	}

	for i, res := range results {
		fmt.Fprintf(&b, "## Invoice %d: %s\n", i, displayFilename(res.Filename))
		if res.Failed() {
			fmt.Fprintf(&b, "Processing error: %s\n\n", res.Error)
			continue
		}

		fmt.Fprintf(&b, "Invoice Number: %s\n", res.InvoiceNumber)
		fmt.Fprintf(&b, "Issuer: %s\n", res.IssuerName)
		fmt.Fprintf(&b, "Receiver: %s\n", res.ReceiverName)
		fmt.Fprintf(&b, "Total: %s\n", formatAmount(res.Total))

		if len(res.Items) > 0 {
			fmt.Fprintf(&b, "Items (%d):\n", len(res.Items))
			for _, item := range res.Items {
				fmt.Fprintf(&b, "    - %s (Qty: %s, Price: %s)\n",
					item.Title, item.Quantity, formatAmount(item.Price))
			}
		} else {
			b.WriteString("Items: None found\n")
		}

		b.WriteString("\n")
	}

	b.WriteString("Attachments included:\n")
	b.WriteString("- Original PDF files\n")
	b.WriteString("- Parsed invoices JSON data\n\n")
	b.WriteString("Best regards,\n")
	b.WriteString("Invoice Processing Bot\n")
	b.WriteString("katechat.tech")

	return b.String()
}

// BuildErrorBody renders the plain-text body of a failure notification.
func BuildErrorBody(errText string) string {
	return fmt.Sprintf(`Hello,

Invoice processing failed and no results are available for your message.

Error: %s

Best regards,
Invoice Processing Bot
katechat.tech`, errText)
}

// BuildNoDocumentsBody renders the plain-text body sent when an inbound
// message carried no PDF documents.
func BuildNoDocumentsBody() string {
	return `Hello,

No PDF attachments were found in your message, so there was nothing to process.
Attach one or more PDF invoices and send again.

Best regards,
Invoice Processing Bot
katechat.tech`
}

// displayFilename returns the filename shown for a record in the report.
func displayFilename(name *string) string {
	if name == nil || *name == "" {
		return fallbackFilename
	}
	return *name
}

// formatAmount renders a monetary value without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
