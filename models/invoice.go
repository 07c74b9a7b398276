package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	InvoiceStatusDraft    = "DRAFT"
	InvoiceStatusSent     = "SENT"
	InvoiceStatusPartial  = "PARTIAL"
	InvoiceStatusPaid     = "PAID"
	InvoiceStatusOverdue  = "OVERDUE"
	InvoiceStatusVoid     = "VOID"
	InvoiceStatusRefunded = "REFUNDED"
)

const (
	InvoiceTypeDeposit = "DEPOSIT"
	InvoiceTypeFinal   = "FINAL"
	InvoiceTypeBond    = "BOND"
	InvoiceTypeAddOns  = "ADD-ONS"
)

func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusVoid, InvoiceStatusRefunded:
		return true
	}
	return false
}

func ValidInvoiceType(s string) bool {
	switch s {
	case InvoiceTypeDeposit, InvoiceTypeFinal, InvoiceTypeBond, InvoiceTypeAddOns:
		return true
	}
	return false
}

// ActiveInvoiceStatuses are the non-terminal states. At most one invoice
// per (bookingId, invoiceType) may be in any of these at a time.
var ActiveInvoiceStatuses = []string{
	InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusPaid,
}

// LineItem is one billed row on an invoice, stored as JSON.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	GSTRate     float64 `json:"gstRate"`
	GSTAmount   float64 `json:"gstAmount"`
}

type Invoice struct {
	ID            string `gorm:"primaryKey;size:64" json:"id"`
	InvoiceNumber string `gorm:"uniqueIndex;size:32" json:"invoiceNumber"`

	BookingID   string `gorm:"size:64;index" json:"bookingId"`
	InvoiceType string `gorm:"size:16;index" json:"invoiceType"`

	// Customer snapshot taken from the booking at creation time.
	CustomerName  string  `gorm:"size:255" json:"customerName"`
	CustomerEmail string  `gorm:"size:150" json:"customerEmail"`
	CustomerPhone string  `gorm:"size:50" json:"customerPhone"`
	CustomerABN   *string `gorm:"size:32" json:"customerAbn,omitempty"`

	HallOwnerID string `gorm:"size:64;index" json:"hallOwnerId"`
	Resource    string `gorm:"size:255" json:"resource"`

	IssueDate time.Time `json:"issueDate"`
	DueDate   time.Time `json:"dueDate"`

	Subtotal   float64 `json:"subtotal"`
	GST        float64 `json:"gst"`
	Total      float64 `json:"total"`
	PaidAmount float64 `json:"paidAmount"` // monotonically non-decreasing

	Status      string         `gorm:"size:16;index" json:"status"`
	Description string         `gorm:"type:text" json:"description"`
	LineItems   datatypes.JSON `json:"lineItems"`
	Notes       string         `gorm:"type:text" json:"notes"`

	SentAt *time.Time `json:"sentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
