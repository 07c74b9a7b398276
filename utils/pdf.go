package utils

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"

	"hall-backend/models"
)

func pdfHeader(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 20)
	doc.Cell(0, 10, EnvOrDefault("VENUE_NAME", "Cranbourne Public Hall"))
	doc.Ln(12)
	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 8, title)
	doc.Ln(14)
	doc.SetFont("Helvetica", "", 12)
}

func pdfRow(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(50, 7, label)
	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 7, value)
	doc.Ln(7)
}

// RenderQuotationPDF renders the customer-facing quotation document.
func RenderQuotationPDF(q models.Quotation) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	pdfHeader(doc, "Quotation")

	pdfRow(doc, "Quotation ID:", q.ID)
	pdfRow(doc, "Date:", q.CreatedAt.Format("02/01/2006"))
	pdfRow(doc, "Valid Until:", q.ValidUntil.Format("02/01/2006"))
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Customer Details")
	doc.Ln(9)
	pdfRow(doc, "Name:", q.CustomerName)
	pdfRow(doc, "Email:", q.CustomerEmail)
	pdfRow(doc, "Phone:", q.CustomerPhone)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Event Details")
	doc.Ln(9)
	pdfRow(doc, "Event Type:", q.EventType)
	pdfRow(doc, "Resource:", q.Resource)
	pdfRow(doc, "Event Date:", q.EventDate)
	pdfRow(doc, "Time:", fmt.Sprintf("%s - %s", q.StartTime, q.EndTime))
	if q.GuestCount != nil {
		pdfRow(doc, "Guest Count:", fmt.Sprintf("%d", *q.GuestCount))
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 14)
	doc.Cell(0, 9, fmt.Sprintf("Total Amount: $%.2f AUD", q.TotalAmount))
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 9)
	doc.Cell(0, 5, "Terms and Conditions:")
	doc.Ln(6)
	for _, term := range []string{
		"- This quotation is valid until the date specified above.",
		"- Payment terms: 50% deposit required to confirm booking.",
		"- Cancellation policy applies as per venue terms.",
		"- Prices are subject to change without notice.",
	} {
		doc.Cell(0, 5, term)
		doc.Ln(5)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("quotation pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderInvoicePDF renders the tax invoice with its line items.
func RenderInvoicePDF(inv models.Invoice) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	pdfHeader(doc, "Tax Invoice")

	pdfRow(doc, "Invoice Number:", inv.InvoiceNumber)
	pdfRow(doc, "Invoice Type:", inv.InvoiceType)
	pdfRow(doc, "Issue Date:", inv.IssueDate.Format("02/01/2006"))
	pdfRow(doc, "Due Date:", inv.DueDate.Format("02/01/2006"))
	pdfRow(doc, "Status:", inv.Status)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Bill To")
	doc.Ln(9)
	pdfRow(doc, "Name:", inv.CustomerName)
	pdfRow(doc, "Email:", inv.CustomerEmail)
	pdfRow(doc, "Phone:", inv.CustomerPhone)
	pdfRow(doc, "Resource:", inv.Resource)
	doc.Ln(4)

	var items []models.LineItem
	if len(inv.LineItems) > 0 {
		_ = json.Unmarshal(inv.LineItems, &items)
	}
	if len(items) > 0 {
		doc.SetFont("Helvetica", "B", 11)
		doc.Cell(90, 7, "Description")
		doc.Cell(20, 7, "Qty")
		doc.Cell(35, 7, "Unit Price")
		doc.Cell(0, 7, "GST")
		doc.Ln(7)
		doc.SetFont("Helvetica", "", 11)
		for _, item := range items {
			doc.Cell(90, 7, item.Description)
			doc.Cell(20, 7, fmt.Sprintf("%d", item.Quantity))
			doc.Cell(35, 7, fmt.Sprintf("$%.2f", item.UnitPrice))
			doc.Cell(0, 7, fmt.Sprintf("$%.2f", item.GSTAmount))
			doc.Ln(7)
		}
		doc.Ln(4)
	}

	pdfRow(doc, "Subtotal:", fmt.Sprintf("$%.2f", inv.Subtotal))
	pdfRow(doc, "GST (10%):", fmt.Sprintf("$%.2f", inv.GST))
	doc.SetFont("Helvetica", "B", 13)
	doc.Cell(50, 8, "Total:")
	doc.Cell(0, 8, fmt.Sprintf("$%.2f AUD", inv.Total))
	doc.Ln(9)
	doc.SetFont("Helvetica", "", 11)
	pdfRow(doc, "Paid to date:", fmt.Sprintf("$%.2f", inv.PaidAmount))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}
