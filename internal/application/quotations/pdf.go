package quotations

import (
	"bytes"
	"fmt"

	"nexora-backend/internal/domain"

	"github.com/go-pdf/fpdf"
)

// renderQuotationPDF lays out the quotation as a single A4 page.
func renderQuotationPDF(q *domain.Quotation, items []Item) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quotation "+q.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, "Nexora Technologies")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 10, "Quotation", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, q.Number, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+q.CreatedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	if q.ValidUntil != nil {
		pdf.CellFormat(0, 6, "Valid until: "+q.ValidUntil.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Prepared for")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, q.ClientName)
	pdf.Ln(6)
	if q.ClientEmail != "" {
		pdf.Cell(0, 6, q.ClientEmail)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		pdf.CellFormat(100, 8, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, it.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, it.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(155, 8, "Total ("+q.Currency+")", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, q.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Prices exclude applicable taxes unless stated otherwise. This quotation is an offer and not an invoice.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
