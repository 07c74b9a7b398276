package models

import "time"

// Payment is an append-only ledger entry against an invoice. Rows are
// never mutated or deleted; the invoice carries the accumulated total.
type Payment struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`

	InvoiceID     string `gorm:"size:64;index" json:"invoiceId"`
	InvoiceNumber string `gorm:"size:32" json:"invoiceNumber"`
	BookingID     string `gorm:"size:64;index" json:"bookingId"`
	HallOwnerID   string `gorm:"size:64;index" json:"hallOwnerId"`

	Amount        float64 `json:"amount"`
	PaymentMethod string  `gorm:"size:64" json:"paymentMethod"`
	Reference     string  `gorm:"size:255" json:"reference"`
	Notes         string  `gorm:"type:text" json:"notes"`

	ProcessedAt time.Time `json:"processedAt"`
	ProcessedBy string    `gorm:"size:64" json:"processedBy"`

	CreatedAt time.Time `json:"createdAt"`
}
