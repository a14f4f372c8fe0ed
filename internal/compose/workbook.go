package compose

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"invomail/internal/domain"
)

// workbookFilename is the attachment name for the Excel summary.
const workbookFilename = "invoice_summary.xlsx"

const (
	invoiceSheet  = "Invoices"
	lineItemSheet = "Line Items"
)

// invoiceColumns defines the header row of the Invoices sheet.
var invoiceColumns = []interface{}{
	"Invoice", "Filename", "Source", "Invoice Number",
	"Issuer Name", "Issuer Address", "Receiver Name", "Receiver Address",
	"Total", "Line Item Count", "Error",
}

// lineItemColumns defines the header row of the Line Items sheet.
var lineItemColumns = []interface{}{
	"Invoice", "Filename", "Title", "Quantity", "Price",
}

// BuildWorkbook renders processing results as a two-sheet Excel workbook:
// one row per invoice on the Invoices sheet and one row per line item on
// the Line Items sheet, keyed back to the invoice by index and filename.
func BuildWorkbook(results []domain.ProcessingResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), invoiceSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(lineItemSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := f.SetSheetRow(invoiceSheet, "A1", &invoiceColumns); err != nil {
		return nil, fmt.Errorf("write invoice header: %w", err)
	}
	if err := f.SetSheetRow(lineItemSheet, "A1", &lineItemColumns); err != nil {
		return nil, fmt.Errorf("write line item header: %w", err)
	}

	itemRow := 2
	for i, res := range results {
		name := displayFilename(res.Filename)
		row := []interface{}{
			i, name, string(res.Source), res.InvoiceNumber,
			res.IssuerName, res.IssuerAddress, res.ReceiverName, res.ReceiverAddress,
			res.Total, len(res.Items), res.Error,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("invoice row %d: %w", i, err)
		}
		if err := f.SetSheetRow(invoiceSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("invoice row %d: %w", i, err)
		}

		for _, item := range res.Items {
			cell, err := excelize.CoordinatesToCellName(1, itemRow)
			if err != nil {
				return nil, fmt.Errorf("line item row %d: %w", itemRow, err)
			}
			values := []interface{}{i, name, item.Title, item.Quantity, item.Price}
			if err := f.SetSheetRow(lineItemSheet, cell, &values); err != nil {
				return nil, fmt.Errorf("line item row %d: %w", itemRow, err)
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
