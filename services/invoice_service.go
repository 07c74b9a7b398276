package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hall-backend/models"
	"hall-backend/utils"
)

const invoiceDueDays = 30

// InvoiceService owns invoicing and the payment ledger.
type InvoiceService struct {
	DB     *gorm.DB
	Mailer *utils.Mailer
	Audit  *AuditService
	Outbox *Outbox
}

func NewInvoiceService(db *gorm.DB, mailer *utils.Mailer, audit *AuditService, outbox *Outbox) *InvoiceService {
	return &InvoiceService{DB: db, Mailer: mailer, Audit: audit, Outbox: outbox}
}

type CreateInvoiceInput struct {
	BookingID   string            `json:"bookingId"`
	InvoiceType string            `json:"invoiceType"`
	DueDate     string            `json:"dueDate"`
	LineItems   []models.LineItem `json:"lineItems"`
	Description string            `json:"description"`
	Notes       string            `json:"notes"`
	CustomerABN *string           `json:"customerAbn"`
}

// Create issues a DRAFT invoice against a booking. At most one invoice
// per (booking, type) may be in a non-terminal state; a second attempt
// is rejected until the first is voided or refunded.
func (s *InvoiceService) Create(p Principal, in CreateInvoiceInput, ip string) (models.Invoice, error) {
	if in.BookingID == "" {
		return models.Invoice{}, validationf("bookingId is required")
	}
	if !models.ValidInvoiceType(in.InvoiceType) {
		return models.Invoice{}, validationf("Invalid invoiceType. Must be one of: DEPOSIT, FINAL, BOND, ADD-ONS")
	}

	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", in.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invoice{}, ErrBookingNotFound
		}
		return models.Invoice{}, err
	}
	ownerID, err := ResolveEffectiveOwner(p, booking.HallOwnerID)
	if err != nil {
		return models.Invoice{}, err
	}

	dueDate := time.Now().UTC().Add(invoiceDueDays * 24 * time.Hour)
	if in.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, in.DueDate)
		}
		if err != nil {
			return models.Invoice{}, validationf("Invalid dueDate format")
		}
		dueDate = parsed
	}

	// Default to a single line for the booking price when none given.
	items := in.LineItems
	if len(items) == 0 {
		items = []models.LineItem{{
			Description: booking.HallName + " hire, " + booking.BookingDate,
			Quantity:    1,
			UnitPrice:   booking.CalculatedPrice,
		}}
	}
	subtotal := 0.0
	for i := range items {
		if items[i].Quantity <= 0 {
			return models.Invoice{}, validationf("Line item quantity must be positive")
		}
		if items[i].UnitPrice < 0 {
			return models.Invoice{}, validationf("Line item unitPrice cannot be negative")
		}
		line := float64(items[i].Quantity) * items[i].UnitPrice
		items[i].GSTRate = GSTRate
		items[i].GSTAmount = CalculateGST(line)
		subtotal += line
	}
	gst := CalculateGST(subtotal)
	lineItems, err := jsonMarshal(items)
	if err != nil {
		return models.Invoice{}, err
	}

	invoice := models.Invoice{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		InvoiceType:   in.InvoiceType,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,
		CustomerABN:   in.CustomerABN,
		HallOwnerID:   ownerID,
		Resource:      booking.HallName,
		IssueDate:     time.Now().UTC(),
		DueDate:       dueDate,
		Subtotal:      subtotal,
		GST:           gst,
		Total:         subtotal + gst,
		Status:        models.InvoiceStatusDraft,
		Description:   in.Description,
		LineItems:     lineItems,
		Notes:         in.Notes,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Invoice{}).
			Where("booking_id = ? AND invoice_type = ? AND status IN ?",
				booking.ID, in.InvoiceType, models.ActiveInvoiceStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return &DuplicateInvoiceError{InvoiceType: in.InvoiceType}
		}

		var createErr error
		for attempt := 0; attempt < 5; attempt++ {
			invoice.InvoiceNumber = utils.GenerateInvoiceNumber()
			createErr = tx.Create(&invoice).Error
			if createErr == nil {
				return nil
			}
			if !isDuplicateKey(createErr) {
				return createErr
			}
		}
		return createErr
	})
	if err != nil {
		return models.Invoice{}, err
	}

	s.Audit.LogInvoiceCreated(p, invoice, ip, ownerID)
	return invoice, nil
}

// ListForOwner returns the owner's invoices newest first, optionally
// narrowed to one booking.
func (s *InvoiceService) ListForOwner(p Principal, bookingID string) ([]models.Invoice, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return nil, err
	}
	q := s.DB.Where("hall_owner_id = ?", ownerID)
	if bookingID != "" {
		q = q.Where("booking_id = ?", bookingID)
	}
	var invoices []models.Invoice
	if err := q.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *InvoiceService) load(id string) (models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invoice{}, ErrInvoiceNotFound
		}
		return models.Invoice{}, err
	}
	return invoice, nil
}

func (s *InvoiceService) Get(p Principal, id string) (models.Invoice, error) {
	invoice, err := s.load(id)
	if err != nil {
		return models.Invoice{}, err
	}
	if _, err := ResolveEffectiveOwner(p, invoice.HallOwnerID); err != nil {
		return models.Invoice{}, err
	}
	return invoice, nil
}

// UpdateStatus moves an invoice between states. The first transition to
// SENT stamps sentAt and emails the invoice PDF to the customer.
func (s *InvoiceService) UpdateStatus(p Principal, id, status, ip string) (models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return models.Invoice{}, validationf("Invalid status. Must be one of: DRAFT, SENT, PARTIAL, PAID, OVERDUE, VOID, REFUNDED")
	}

	invoice, err := s.load(id)
	if err != nil {
		return models.Invoice{}, err
	}
	ownerID, err := ResolveEffectiveOwner(p, invoice.HallOwnerID)
	if err != nil {
		return models.Invoice{}, err
	}

	oldStatus := invoice.Status
	updates := map[string]interface{}{"status": status}
	firstSend := status == models.InvoiceStatusSent && invoice.SentAt == nil
	if firstSend {
		now := time.Now().UTC()
		updates["sent_at"] = now
		invoice.SentAt = &now
	}
	if err := s.DB.Model(&invoice).Updates(updates).Error; err != nil {
		return models.Invoice{}, err
	}
	invoice.Status = status

	if firstSend {
		snapshot := invoice
		s.Outbox.Enqueue("invoice:send-email", func() error {
			pdf, err := utils.RenderInvoicePDF(snapshot)
			if err != nil {
				return err
			}
			return s.Mailer.SendInvoiceEmail(snapshot, pdf)
		})
	}
	s.Audit.LogInvoiceUpdated(p, invoice.InvoiceNumber, oldStatus, status, ip, ownerID)
	return invoice, nil
}

type RecordPaymentInput struct {
	Amount        *float64 `json:"amount"`
	PaymentMethod string   `json:"paymentMethod"`
	Reference     string   `json:"reference"`
	Notes         string   `json:"notes"`
	ProcessedAt   string   `json:"processedAt"`
}

// RecordPayment appends a ledger entry and re-derives the invoice
// status from the accumulated amount. Overpayment is accepted and kept
// visible in paidAmount rather than capped.
func (s *InvoiceService) RecordPayment(p Principal, id string, in RecordPaymentInput, ip string) (models.Invoice, models.Payment, error) {
	if in.Amount == nil || *in.Amount <= 0 {
		return models.Invoice{}, models.Payment{}, validationf("Payment amount must be a positive number")
	}

	invoice, err := s.load(id)
	if err != nil {
		return models.Invoice{}, models.Payment{}, err
	}
	ownerID, err := ResolveEffectiveOwner(p, invoice.HallOwnerID)
	if err != nil {
		return models.Invoice{}, models.Payment{}, err
	}
	if invoice.Status == models.InvoiceStatusVoid || invoice.Status == models.InvoiceStatusRefunded {
		return models.Invoice{}, models.Payment{}, validationf("Cannot record a payment against a %s invoice", invoice.Status)
	}

	processedAt := time.Now().UTC()
	if in.ProcessedAt != "" {
		parsed, err := time.Parse(time.RFC3339, in.ProcessedAt)
		if err != nil {
			return models.Invoice{}, models.Payment{}, validationf("Invalid processedAt format")
		}
		processedAt = parsed
	}

	method := in.PaymentMethod
	if method == "" {
		method = "Bank Transfer"
	}
	payment := models.Payment{
		ID:            uuid.NewString(),
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		BookingID:     invoice.BookingID,
		HallOwnerID:   ownerID,
		Amount:        *in.Amount,
		PaymentMethod: method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		ProcessedAt:   processedAt,
		ProcessedBy:   p.UID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction so concurrent payments
		// accumulate instead of clobbering each other.
		var current models.Invoice
		if err := tx.First(&current, "id = ?", invoice.ID).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		paid := current.PaidAmount + payment.Amount
		status := models.InvoiceStatusPartial
		if paid >= current.Total {
			status = models.InvoiceStatusPaid
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{"paid_amount": paid, "status": status}).Error; err != nil {
			return err
		}
		invoice = current
		invoice.PaidAmount = paid
		invoice.Status = status
		return nil
	})
	if err != nil {
		return models.Invoice{}, models.Payment{}, err
	}

	s.Audit.LogPaymentRecorded(p, payment, ip, ownerID)
	return invoice, payment, nil
}

// ListPayments returns the ledger entries for one invoice, oldest first.
func (s *InvoiceService) ListPayments(p Principal, id string) ([]models.Payment, error) {
	invoice, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	var payments []models.Payment
	if err := s.DB.Where("invoice_id = ?", invoice.ID).Order("processed_at").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// RenderPDF returns the invoice PDF for download.
func (s *InvoiceService) RenderPDF(p Principal, id string) ([]byte, error) {
	invoice, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	return utils.RenderInvoicePDF(invoice)
}
