package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hall-backend/models"
)

// AuditEntry is one event to be written to the audit trail.
type AuditEntry struct {
	Principal      Principal
	Action         string
	TargetType     string
	Target         string
	Changes        interface{}
	IPAddress      string
	HallID         string
	AdditionalInfo string
}

// AuditService writes the audit trail. Every write is fire-and-forget:
// failures are logged and swallowed so they can never fail or roll back
// the operation being audited.
type AuditService struct {
	DB     *gorm.DB
	Outbox *Outbox
}

func NewAuditService(db *gorm.DB, outbox *Outbox) *AuditService {
	return &AuditService{DB: db, Outbox: outbox}
}

// Log enqueues the entry for persistence.
func (s *AuditService) Log(entry AuditEntry) {
	s.Outbox.Enqueue("audit:"+entry.Action, func() error {
		var changes datatypes.JSON
		if entry.Changes != nil {
			raw, err := json.Marshal(entry.Changes)
			if err == nil {
				changes = datatypes.JSON(raw)
			}
		}
		row := models.AuditLog{
			UserID:         entry.Principal.UID,
			UserEmail:      entry.Principal.Email,
			UserRole:       entry.Principal.Role,
			Action:         entry.Action,
			TargetType:     entry.TargetType,
			Target:         entry.Target,
			Changes:        changes,
			IPAddress:      entry.IPAddress,
			HallID:         entry.HallID,
			AdditionalInfo: entry.AdditionalInfo,
			Timestamp:      time.Now().UTC(),
		}
		return s.DB.Create(&row).Error
	})
}

func (s *AuditService) LogBookingCreated(p Principal, booking models.Booking, ip, hallOwnerID, source string) {
	s.Log(AuditEntry{
		Principal:  p,
		Action:     "booking_created",
		TargetType: "booking",
		Target:     fmt.Sprintf("Booking: %s (%s)", booking.ID, booking.CustomerName),
		Changes: map[string]interface{}{
			"customerName": booking.CustomerName,
			"bookingDate":  booking.BookingDate,
			"status":       booking.Status,
			"totalAmount":  booking.CalculatedPrice,
			"source":       source,
		},
		IPAddress: ip,
		HallID:    hallOwnerID,
	})
}

func (s *AuditService) LogQuotationCreated(p Principal, quotation models.Quotation, ip, hallOwnerID string) {
	s.Log(AuditEntry{
		Principal:  p,
		Action:     "quotation_created",
		TargetType: "quotation",
		Target:     fmt.Sprintf("Quotation: %s (%s)", quotation.ID, quotation.CustomerName),
		Changes: map[string]interface{}{
			"customerName": quotation.CustomerName,
			"eventType":    quotation.EventType,
			"totalAmount":  quotation.TotalAmount,
		},
		IPAddress: ip,
		HallID:    hallOwnerID,
	})
}

func (s *AuditService) LogInvoiceCreated(p Principal, invoice models.Invoice, ip, hallOwnerID string) {
	s.Log(AuditEntry{
		Principal:  p,
		Action:     "invoice_created",
		TargetType: "invoice",
		Target:     fmt.Sprintf("Invoice: %s", invoice.InvoiceNumber),
		Changes: map[string]interface{}{
			"invoiceNumber": invoice.InvoiceNumber,
			"bookingId":     invoice.BookingID,
			"invoiceType":   invoice.InvoiceType,
			"total":         invoice.Total,
		},
		IPAddress: ip,
		HallID:    hallOwnerID,
	})
}

func (s *AuditService) LogInvoiceUpdated(p Principal, invoiceID, oldStatus, newStatus, ip, hallOwnerID string) {
	s.Log(AuditEntry{
		Principal:  p,
		Action:     "invoice_updated",
		TargetType: "invoice",
		Target:     fmt.Sprintf("Invoice: %s", invoiceID),
		Changes: map[string]interface{}{
			"old": map[string]string{"status": oldStatus},
			"new": map[string]string{"status": newStatus},
		},
		IPAddress: ip,
		HallID:    hallOwnerID,
	})
}

func (s *AuditService) LogPaymentRecorded(p Principal, payment models.Payment, ip, hallOwnerID string) {
	s.Log(AuditEntry{
		Principal:  p,
		Action:     "payment_recorded",
		TargetType: "payment",
		Target:     fmt.Sprintf("Payment: %s against %s", payment.ID, payment.InvoiceNumber),
		Changes: map[string]interface{}{
			"invoiceId":     payment.InvoiceID,
			"invoiceNumber": payment.InvoiceNumber,
			"amount":        payment.Amount,
			"paymentMethod": payment.PaymentMethod,
		},
		IPAddress: ip,
		HallID:    hallOwnerID,
	})
}

// ListForOwner returns the audit trail scoped to one hall owner, newest
// first. Sub-users see their parent's trail.
func (s *AuditService) ListForOwner(p Principal, hallOwnerID string) ([]models.AuditLog, error) {
	ownerID, err := ResolveEffectiveOwner(p, hallOwnerID)
	if err != nil {
		return nil, err
	}
	var logs []models.AuditLog
	if err := s.DB.Where("hall_id = ?", ownerID).Order("timestamp DESC").Limit(500).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
