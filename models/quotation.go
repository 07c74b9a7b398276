package models

import "time"

const (
	QuotationStatusDraft    = "Draft"
	QuotationStatusSent     = "Sent"
	QuotationStatusAccepted = "Accepted"
	QuotationStatusDeclined = "Declined"
	QuotationStatusExpired  = "Expired"
)

func ValidQuotationStatus(s string) bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusDeclined, QuotationStatusExpired:
		return true
	}
	return false
}

// Quotation is a priced offer for an event. The primary key is the
// human-readable "QUO-xxxxxx" id shown to customers. BookingID is set
// exactly once, when the quotation is accepted and materialised into a
// confirmed booking.
type Quotation struct {
	ID string `gorm:"primaryKey;size:32" json:"id"`

	CustomerName  string `gorm:"size:255" json:"customerName"`
	CustomerEmail string `gorm:"size:150" json:"customerEmail"`
	CustomerPhone string `gorm:"size:50" json:"customerPhone"`

	EventType string `gorm:"size:150" json:"eventType"`
	Resource  string `gorm:"size:64;index" json:"resource"` // hall id
	EventDate string `gorm:"size:10" json:"eventDate"`      // 2006-01-02
	StartTime string `gorm:"size:8" json:"startTime"`
	EndTime   string `gorm:"size:8" json:"endTime"`

	GuestCount  *int    `json:"guestCount,omitempty"`
	TotalAmount float64 `json:"totalAmount"`

	ValidUntil time.Time `json:"validUntil"`
	Status     string    `gorm:"size:16;index" json:"status"`
	Notes      string    `gorm:"type:text" json:"notes"`

	HallOwnerID string `gorm:"size:64;index" json:"hallOwnerId"`
	CreatedBy   string `gorm:"size:64" json:"createdBy"`

	BookingID *string `gorm:"size:64" json:"bookingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
