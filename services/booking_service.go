package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hall-backend/models"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
	timeRe  = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// BookingService owns the booking lifecycle: public submissions,
// slot-conflict detection, best-effort pricing, status/price updates
// and the public availability calendar.
type BookingService struct {
	DB      *gorm.DB
	Pricing *PricingService

	// serialises conflict-check-then-insert per (owner, hall, date) so
	// concurrent submissions cannot double-book a slot.
	locks *slotLocks
}

func NewBookingService(db *gorm.DB, pricing *PricingService) *BookingService {
	return &BookingService{DB: db, Pricing: pricing, locks: newSlotLocks()}
}

// CreateBookingInput is a public customer submission.
type CreateBookingInput struct {
	CustomerName          string   `json:"customerName"`
	CustomerEmail         string   `json:"customerEmail"`
	CustomerPhone         string   `json:"customerPhone"`
	EventType             string   `json:"eventType"`
	SelectedHall          string   `json:"selectedHall"`
	BookingDate           string   `json:"bookingDate"`
	StartTime             string   `json:"startTime"`
	EndTime               string   `json:"endTime"`
	AdditionalDescription string   `json:"additionalDescription"`
	HallOwnerID           string   `json:"hallOwnerId"`
	EstimatedPrice        *float64 `json:"estimatedPrice"`
}

func (in *CreateBookingInput) validate() error {
	if in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "" ||
		in.EventType == "" || in.SelectedHall == "" || in.BookingDate == "" ||
		in.StartTime == "" || in.EndTime == "" || in.HallOwnerID == "" {
		return validationf("Missing required fields: customerName, customerEmail, customerPhone, eventType, selectedHall, bookingDate, startTime, endTime, hallOwnerId")
	}
	if !emailRe.MatchString(in.CustomerEmail) {
		return validationf("Invalid email format")
	}
	if !phoneRe.MatchString(phoneSeparators.Replace(in.CustomerPhone)) {
		return validationf("Invalid phone number format")
	}
	if !dateRe.MatchString(in.BookingDate) {
		return validationf("Invalid booking date format")
	}
	day, err := time.Parse("2006-01-02", in.BookingDate)
	if err != nil {
		return validationf("Invalid booking date format")
	}
	// Date-only comparison: a booking for today is fine whatever the
	// current time of day.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return validationf("Booking date cannot be in the past")
	}
	if !timeRe.MatchString(in.StartTime) || !timeRe.MatchString(in.EndTime) {
		return validationf("Invalid time format. Use HH:MM format")
	}
	start, _ := minutesOfDay(in.StartTime)
	end, _ := minutesOfDay(in.EndTime)
	if end <= start {
		return validationf("End time must be after start time")
	}
	return nil
}

// overlaps reports whether two half-open [start, end) windows, given as
// minutes of day, intersect. Exact abutment is not an overlap.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// findConflict returns the first active booking whose window overlaps
// the candidate slot, or nil. Cancelled and completed bookings never
// conflict.
func (s *BookingService) findConflict(tx *gorm.DB, hallOwnerID, hallID, date, startTime, endTime, excludeBookingID string) (*models.Booking, error) {
	candStart, err := minutesOfDay(startTime)
	if err != nil {
		return nil, err
	}
	candEnd, err := minutesOfDay(endTime)
	if err != nil {
		return nil, err
	}

	var existing []models.Booking
	q := tx.Where("hall_owner_id = ? AND hall_id = ? AND booking_date = ? AND status IN ?",
		hallOwnerID, hallID, date,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed})
	if excludeBookingID != "" {
		q = q.Where("id <> ?", excludeBookingID)
	}
	if err := q.Find(&existing).Error; err != nil {
		return nil, err
	}

	for i := range existing {
		exStart, err := minutesOfDay(existing[i].StartTime)
		if err != nil {
			continue
		}
		exEnd, err := minutesOfDay(existing[i].EndTime)
		if err != nil {
			continue
		}
		if overlaps(candStart, candEnd, exStart, exEnd) {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// HasConflict answers whether the proposed slot collides with an active
// booking. Exposed for availability probes; booking creation re-checks
// under the slot lock.
func (s *BookingService) HasConflict(hallOwnerID, hallID, date, startTime, endTime, excludeBookingID string) (bool, error) {
	conflict, err := s.findConflict(s.DB, hallOwnerID, hallID, date, startTime, endTime, excludeBookingID)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// Create validates and persists a public booking submission with status
// pending. The conflict check and the insert run under the slot lock
// and a transaction, so overlapping concurrent submissions serialise
// and the loser sees the winner's row.
func (s *BookingService) Create(in CreateBookingInput) (models.Booking, error) {
	if err := in.validate(); err != nil {
		return models.Booking{}, err
	}

	// Hall owner must exist and actually be a hall owner.
	var owner models.User
	if err := s.DB.First(&owner, "uid = ?", in.HallOwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrHallOwnerNotFound
		}
		return models.Booking{}, err
	}
	if owner.Role != models.RoleHallOwner {
		return models.Booking{}, ErrHallOwnerNotFound
	}

	var hall models.Hall
	if err := s.DB.First(&hall, "id = ?", in.SelectedHall).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrHallNotFound
		}
		return models.Booking{}, err
	}
	if hall.HallOwnerID != in.HallOwnerID {
		return models.Booking{}, validationf("Selected hall does not belong to the specified hall owner")
	}

	unlock := s.locks.lock(in.HallOwnerID, in.SelectedHall, in.BookingDate)
	defer unlock()

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		conflict, err := s.findConflict(tx, in.HallOwnerID, in.SelectedHall, in.BookingDate, in.StartTime, in.EndTime, "")
		if err != nil {
			return err
		}
		if conflict != nil {
			return &SlotConflictError{
				StartTime:    conflict.StartTime,
				EndTime:      conflict.EndTime,
				CustomerName: conflict.CustomerName,
			}
		}

		// Best-effort pricing; a missing rate card never blocks.
		amount, details := s.Pricing.PriceSlot(in.HallOwnerID, in.SelectedHall, in.BookingDate, in.StartTime, in.EndTime, in.EstimatedPrice)

		booking = models.Booking{
			ID:                    uuid.NewString(),
			CustomerName:          strings.TrimSpace(in.CustomerName),
			CustomerEmail:         strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
			CustomerPhone:         strings.TrimSpace(in.CustomerPhone),
			EventType:             strings.TrimSpace(in.EventType),
			HallID:                in.SelectedHall,
			HallOwnerID:           in.HallOwnerID,
			HallName:              hall.Name,
			BookingDate:           in.BookingDate,
			StartTime:             in.StartTime,
			EndTime:               in.EndTime,
			AdditionalDescription: strings.TrimSpace(in.AdditionalDescription),
			Status:                models.BookingStatusPending,
			CalculatedPrice:       amount,
			PriceDetails:          details,
			BookingSource:         models.BookingSourceDirect,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// UpdateStatus sets a booking's status. Only the owning hall owner may
// do this; sub-users are deliberately not permitted for this operation.
// Legality beyond enum membership is not enforced.
func (s *BookingService) UpdateStatus(p Principal, bookingID, status string) (models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return models.Booking{}, validationf("Invalid status. Must be one of: pending, confirmed, cancelled, completed")
	}

	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}

	if p.Role != models.RoleHallOwner {
		return models.Booking{}, ErrRoleNotAllowed
	}
	if booking.HallOwnerID != p.UID {
		return models.Booking{}, ErrAccessDenied
	}

	booking.Status = status
	if err := s.DB.Model(&booking).Updates(map[string]interface{}{"status": status}).Error; err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// UpdatePriceInput carries the optional manual price fields; nil fields
// are left untouched.
type UpdatePriceInput struct {
	CalculatedPrice *float64    `json:"calculatedPrice"`
	PriceDetails    interface{} `json:"priceDetails"`
	Notes           *string     `json:"notes"`
}

// UpdatePrice lets the owning hall owner override the derived price.
func (s *BookingService) UpdatePrice(p Principal, bookingID string, in UpdatePriceInput) (models.Booking, error) {
	if in.CalculatedPrice != nil && *in.CalculatedPrice < 0 {
		return models.Booking{}, validationf("Calculated price must be a non-negative number")
	}

	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}

	if p.Role != models.RoleHallOwner {
		return models.Booking{}, ErrRoleNotAllowed
	}
	if booking.HallOwnerID != p.UID {
		return models.Booking{}, ErrAccessDenied
	}

	updates := map[string]interface{}{}
	if in.CalculatedPrice != nil {
		updates["calculated_price"] = *in.CalculatedPrice
		booking.CalculatedPrice = *in.CalculatedPrice
	}
	if in.PriceDetails != nil {
		raw, err := jsonMarshal(in.PriceDetails)
		if err != nil {
			return models.Booking{}, validationf("Invalid price details")
		}
		updates["price_details"] = raw
		booking.PriceDetails = raw
	}
	if in.Notes != nil {
		updates["price_notes"] = *in.Notes
		booking.PriceNotes = *in.Notes
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&booking).Updates(updates).Error; err != nil {
			return models.Booking{}, err
		}
	}
	return booking, nil
}

// ListForOwner returns every booking of the hall owner, newest first.
func (s *BookingService) ListForOwner(p Principal, hallOwnerID string) ([]models.Booking, error) {
	if p.Role != models.RoleHallOwner {
		return nil, ErrRoleNotAllowed
	}
	if p.UID != hallOwnerID {
		return nil, ErrAccessDenied
	}
	var bookings []models.Booking
	if err := s.DB.Where("hall_owner_id = ?", hallOwnerID).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetByID returns one booking for its owning hall owner.
func (s *BookingService) GetByID(p Principal, bookingID string) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}
	if p.Role != models.RoleHallOwner {
		return models.Booking{}, ErrRoleNotAllowed
	}
	if booking.HallOwnerID != p.UID {
		return models.Booking{}, ErrAccessDenied
	}
	return booking, nil
}

// SlotInfo is one occupied window on the public availability calendar.
type SlotInfo struct {
	BookingID    string `json:"bookingId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CustomerName string `json:"customerName"`
	EventType    string `json:"eventType"`
	Status       string `json:"status"`
}

// UnavailableSlots groups active bookings as date -> hall -> slots for
// the public calendar. Resource and date-range filters are applied
// in-memory; date bounds are inclusive and compared lexically on the
// ISO date string.
func (s *BookingService) UnavailableSlots(hallOwnerID, resourceID, startDate, endDate string) (map[string]map[string][]SlotInfo, int, error) {
	var owner models.User
	if err := s.DB.First(&owner, "uid = ?", hallOwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrHallOwnerNotFound
		}
		return nil, 0, err
	}
	if owner.Role != models.RoleHallOwner {
		return nil, 0, ErrHallOwnerNotFound
	}

	var bookings []models.Booking
	if err := s.DB.Where("hall_owner_id = ?", hallOwnerID).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	unavailable := make(map[string]map[string][]SlotInfo)
	total := 0
	for _, b := range bookings {
		if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
			continue
		}
		if resourceID != "" && b.HallID != resourceID {
			continue
		}
		if startDate != "" && b.BookingDate < startDate {
			continue
		}
		if endDate != "" && b.BookingDate > endDate {
			continue
		}
		if b.BookingDate == "" || b.HallID == "" {
			continue
		}
		if unavailable[b.BookingDate] == nil {
			unavailable[b.BookingDate] = make(map[string][]SlotInfo)
		}
		unavailable[b.BookingDate][b.HallID] = append(unavailable[b.BookingDate][b.HallID], SlotInfo{
			BookingID:    b.ID,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			CustomerName: b.CustomerName,
			EventType:    b.EventType,
			Status:       b.Status,
		})
		total++
	}
	return unavailable, total, nil
}
