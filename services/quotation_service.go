package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hall-backend/models"
	"hall-backend/utils"
)

const quotationValidityDays = 14

// QuotationService owns the quotation lifecycle and the conversion of
// accepted quotations into confirmed bookings.
type QuotationService struct {
	DB     *gorm.DB
	Mailer *utils.Mailer
	Audit  *AuditService
	Outbox *Outbox
}

func NewQuotationService(db *gorm.DB, mailer *utils.Mailer, audit *AuditService, outbox *Outbox) *QuotationService {
	return &QuotationService{DB: db, Mailer: mailer, Audit: audit, Outbox: outbox}
}

type CreateQuotationInput struct {
	CustomerName  string   `json:"customerName"`
	CustomerEmail string   `json:"customerEmail"`
	CustomerPhone string   `json:"customerPhone"`
	EventType     string   `json:"eventType"`
	Resource      string   `json:"resource"`
	EventDate     string   `json:"eventDate"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	GuestCount    *int     `json:"guestCount"`
	TotalAmount   *float64 `json:"totalAmount"`
	ValidUntil    string   `json:"validUntil"`
	Notes         string   `json:"notes"`
}

// Create persists a Draft quotation attributed to the principal's
// effective hall owner. The human-readable id is retried on the rare
// collision so ids stay unique under load.
func (s *QuotationService) Create(p Principal, in CreateQuotationInput, ip string) (models.Quotation, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return models.Quotation{}, err
	}

	if in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "" ||
		in.EventType == "" || in.Resource == "" || in.EventDate == "" ||
		in.StartTime == "" || in.EndTime == "" || in.TotalAmount == nil {
		return models.Quotation{}, validationf("Missing required fields")
	}
	if !emailRe.MatchString(in.CustomerEmail) {
		return models.Quotation{}, validationf("Invalid email format")
	}

	validUntil := time.Now().UTC().Add(quotationValidityDays * 24 * time.Hour)
	if in.ValidUntil != "" {
		parsed, err := time.Parse(time.RFC3339, in.ValidUntil)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", in.ValidUntil)
		}
		if err != nil {
			return models.Quotation{}, validationf("Invalid validUntil date format")
		}
		validUntil = parsed
	}

	quotation := models.Quotation{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		EventType:     strings.TrimSpace(in.EventType),
		Resource:      in.Resource,
		EventDate:     in.EventDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		GuestCount:    in.GuestCount,
		TotalAmount:   *in.TotalAmount,
		ValidUntil:    validUntil,
		Status:        models.QuotationStatusDraft,
		Notes:         in.Notes,
		HallOwnerID:   ownerID,
		CreatedBy:     p.UID,
	}

	// Timestamp-suffix ids can collide under load; retry a few times.
	var createErr error
	for attempt := 0; attempt < 5; attempt++ {
		quotation.ID = utils.GenerateQuotationID()
		createErr = s.DB.Create(&quotation).Error
		if createErr == nil {
			break
		}
		if errors.Is(createErr, gorm.ErrDuplicatedKey) || isDuplicateKey(createErr) {
			time.Sleep(time.Millisecond)
			continue
		}
		return models.Quotation{}, createErr
	}
	if createErr != nil {
		return models.Quotation{}, createErr
	}

	s.Audit.LogQuotationCreated(p, quotation, ip, ownerID)
	return quotation, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") || strings.Contains(msg, "constraint")
}

// ListForOwner returns every quotation of the principal's effective
// owner, newest first.
func (s *QuotationService) ListForOwner(p Principal) ([]models.Quotation, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return nil, err
	}
	var quotations []models.Quotation
	if err := s.DB.Where("hall_owner_id = ?", ownerID).Order("created_at DESC").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

func (s *QuotationService) load(id string) (models.Quotation, error) {
	var quotation models.Quotation
	if err := s.DB.First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quotation{}, ErrQuotationNotFound
		}
		return models.Quotation{}, err
	}
	return quotation, nil
}

// Get returns one quotation, access-checked against its owner.
func (s *QuotationService) Get(p Principal, id string) (models.Quotation, error) {
	quotation, err := s.load(id)
	if err != nil {
		return models.Quotation{}, err
	}
	if _, err := ResolveEffectiveOwner(p, quotation.HallOwnerID); err != nil {
		return models.Quotation{}, err
	}
	return quotation, nil
}

// UpdateStatus transitions a quotation and fires the status-specific
// side effects. All side effects are best-effort: a failed email, PDF
// render or audit write never fails the status update, and nothing can
// roll back a booking created by acceptance.
func (s *QuotationService) UpdateStatus(p Principal, id, status, ip string) (models.Quotation, error) {
	if !models.ValidQuotationStatus(status) {
		return models.Quotation{}, validationf("Invalid status. Must be one of: Draft, Sent, Accepted, Declined, Expired")
	}

	quotation, err := s.load(id)
	if err != nil {
		return models.Quotation{}, err
	}
	ownerID, err := ResolveEffectiveOwner(p, quotation.HallOwnerID)
	if err != nil {
		return models.Quotation{}, err
	}

	if err := s.DB.Model(&quotation).Updates(map[string]interface{}{"status": status}).Error; err != nil {
		return models.Quotation{}, err
	}
	quotation.Status = status

	switch status {
	case models.QuotationStatusSent:
		snapshot := quotation
		s.Outbox.Enqueue("quotation:send-email", func() error {
			pdf, err := utils.RenderQuotationPDF(snapshot)
			if err != nil {
				return err
			}
			return s.Mailer.SendQuotationEmail(snapshot, pdf)
		})

	case models.QuotationStatusDeclined:
		snapshot := quotation
		s.Outbox.Enqueue("quotation:decline-email", func() error {
			return s.Mailer.SendQuotationDeclineEmail(snapshot)
		})

	case models.QuotationStatusAccepted:
		updated, err := s.convertToBooking(p, quotation, ownerID, ip)
		if err != nil {
			// Conversion failure does not undo the status change,
			// matching the rest of the accept flow's semantics.
			logger().WithError(err).WithField("quotation", quotation.ID).
				Error("failed to convert accepted quotation to booking")
			return quotation, nil
		}
		quotation = updated
	}

	return quotation, nil
}

// convertToBooking materialises a confirmed booking from the accepted
// quotation and links it back. Accepting an already-converted quotation
// is a no-op: exactly one booking exists per accepted quotation.
func (s *QuotationService) convertToBooking(p Principal, quotation models.Quotation, ownerID, ip string) (models.Quotation, error) {
	if quotation.BookingID != nil {
		return quotation, nil
	}

	priceDetails, _ := jsonMarshal(map[string]string{
		"quotationId": quotation.ID,
		"source":      "quotation_accepted",
	})

	booking := models.Booking{
		ID:                    uuid.NewString(),
		CustomerName:          quotation.CustomerName,
		CustomerEmail:         quotation.CustomerEmail,
		CustomerPhone:         quotation.CustomerPhone,
		EventType:             quotation.EventType,
		HallID:                quotation.Resource,
		HallOwnerID:           ownerID,
		HallName:              quotation.Resource,
		BookingDate:           quotation.EventDate,
		StartTime:             quotation.StartTime,
		EndTime:               quotation.EndTime,
		AdditionalDescription: quotation.Notes,
		GuestCount:            quotation.GuestCount,
		Status:                models.BookingStatusConfirmed,
		CalculatedPrice:       quotation.TotalAmount,
		PriceDetails:          priceDetails,
		BookingSource:         models.BookingSourceQuotation,
		QuotationID:           &quotation.ID,
	}

	// Prefer the real hall name when the resource id resolves.
	var hall models.Hall
	if err := s.DB.First(&hall, "id = ?", quotation.Resource).Error; err == nil {
		booking.HallName = hall.Name
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return tx.Model(&models.Quotation{}).Where("id = ?", quotation.ID).
			Update("booking_id", booking.ID).Error
	})
	if err != nil {
		return quotation, err
	}
	quotation.BookingID = &booking.ID

	snapshot := quotation
	s.Outbox.Enqueue("quotation:booking-confirmation-email", func() error {
		return s.Mailer.SendBookingConfirmationEmail(snapshot, booking.ID)
	})
	s.Audit.LogBookingCreated(p, booking, ip, ownerID, "quotation_accepted")

	return quotation, nil
}

// UpdateQuotationInput carries the editable fields; nil means leave
// unchanged. Status and booking linkage are not editable here.
type UpdateQuotationInput struct {
	CustomerName  *string  `json:"customerName"`
	CustomerEmail *string  `json:"customerEmail"`
	CustomerPhone *string  `json:"customerPhone"`
	EventType     *string  `json:"eventType"`
	Resource      *string  `json:"resource"`
	EventDate     *string  `json:"eventDate"`
	StartTime     *string  `json:"startTime"`
	EndTime       *string  `json:"endTime"`
	GuestCount    *int     `json:"guestCount"`
	TotalAmount   *float64 `json:"totalAmount"`
	Notes         *string  `json:"notes"`
}

// Update applies a partial edit. An accepted quotation keeps its
// booking linkage whatever is edited afterwards.
func (s *QuotationService) Update(p Principal, id string, in UpdateQuotationInput) (models.Quotation, error) {
	quotation, err := s.load(id)
	if err != nil {
		return models.Quotation{}, err
	}
	if _, err := ResolveEffectiveOwner(p, quotation.HallOwnerID); err != nil {
		return models.Quotation{}, err
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setString("customer_name", in.CustomerName)
	setString("customer_phone", in.CustomerPhone)
	setString("event_type", in.EventType)
	setString("resource", in.Resource)
	setString("event_date", in.EventDate)
	setString("start_time", in.StartTime)
	setString("end_time", in.EndTime)
	setString("notes", in.Notes)
	if in.CustomerEmail != nil {
		if !emailRe.MatchString(*in.CustomerEmail) {
			return models.Quotation{}, validationf("Invalid email format")
		}
		updates["customer_email"] = strings.ToLower(strings.TrimSpace(*in.CustomerEmail))
	}
	if in.GuestCount != nil {
		updates["guest_count"] = *in.GuestCount
	}
	if in.TotalAmount != nil {
		updates["total_amount"] = *in.TotalAmount
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&quotation).Updates(updates).Error; err != nil {
			return models.Quotation{}, err
		}
	}
	return s.load(id)
}

// Delete hard-deletes a quotation. Any booking created from it stays.
func (s *QuotationService) Delete(p Principal, id string) error {
	quotation, err := s.load(id)
	if err != nil {
		return err
	}
	if _, err := ResolveEffectiveOwner(p, quotation.HallOwnerID); err != nil {
		return err
	}
	return s.DB.Delete(&models.Quotation{}, "id = ?", id).Error
}

// RenderPDF returns the quotation PDF for download.
func (s *QuotationService) RenderPDF(p Principal, id string) ([]byte, error) {
	quotation, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	return utils.RenderQuotationPDF(quotation)
}
