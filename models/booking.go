package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

const (
	BookingSourceDirect    = "direct"
	BookingSourceQuotation = "quotation"
)

// ValidBookingStatus reports whether s is one of the four booking states.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Booking reserves one hall for a single calendar date and a half-open
// [StartTime, EndTime) window. BookingDate is kept as a "2006-01-02"
// string so the calendar endpoints can range-filter lexically, and the
// times as "HH:MM" strings matching what customers submit.
type Booking struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`

	CustomerName  string `gorm:"size:255" json:"customerName"`
	CustomerEmail string `gorm:"size:150;index" json:"customerEmail"`
	CustomerPhone string `gorm:"size:50" json:"customerPhone"`

	EventType string `gorm:"size:150" json:"eventType"`

	HallID      string `gorm:"size:64;index:idx_booking_slot" json:"hallId"`
	HallOwnerID string `gorm:"size:64;index:idx_booking_slot" json:"hallOwnerId"`
	HallName    string `gorm:"size:255" json:"hallName"`

	BookingDate string `gorm:"size:10;index:idx_booking_slot" json:"bookingDate"`
	StartTime   string `gorm:"size:8" json:"startTime"`
	EndTime     string `gorm:"size:8" json:"endTime"`

	AdditionalDescription string `gorm:"type:text" json:"additionalDescription"`
	GuestCount            *int   `json:"guestCount,omitempty"`

	Status string `gorm:"size:32;index" json:"status"`

	CalculatedPrice float64        `json:"calculatedPrice"`
	PriceDetails    datatypes.JSON `json:"priceDetails,omitempty"`
	PriceNotes      string         `gorm:"type:text" json:"priceNotes,omitempty"`

	BookingSource string  `gorm:"size:32;default:direct" json:"bookingSource"`
	QuotationID   *string `gorm:"size:64;index" json:"quotationId,omitempty"`

	// Bookings are never physically deleted; cancelled/completed rows
	// stay for the audit trail and simply drop out of conflict checks.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
