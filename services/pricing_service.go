package services

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hall-backend/models"
)

// GSTRate is the flat tax applied to invoice subtotals.
const GSTRate = 0.10

// Hour threshold at which a daily-rate booking is billed as a full day.
const fullDayHours = 8

// PriceDetails is the rate snapshot stored alongside every priced
// booking so later rate-card edits don't rewrite history.
type PriceDetails struct {
	RateType               string   `json:"rateType"`
	WeekdayRate            float64  `json:"weekdayRate"`
	WeekendRate            float64  `json:"weekendRate"`
	AppliedRate            float64  `json:"appliedRate"`
	DurationHours          float64  `json:"durationHours"`
	IsWeekend              bool     `json:"isWeekend"`
	CalculationMethod      string   `json:"calculationMethod"`
	FrontendEstimatedPrice *float64 `json:"frontendEstimatedPrice,omitempty"`
}

// PricingService derives quoted amounts from rate cards and owns the
// GST arithmetic shared with invoicing.
type PricingService struct {
	DB *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{DB: db}
}

// minutesOfDay parses "HH:MM" into minutes since midnight. Times are
// wall-clock values on a fixed reference day; no timezone is involved.
func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ComputePrice quotes a slot against a rate card. Fractional hours are
// allowed; daily cards bill the full rate at >= 8h and half otherwise.
func (s *PricingService) ComputePrice(card models.RateCard, date, startTime, endTime string) (float64, *PriceDetails, error) {
	startMin, err := minutesOfDay(startTime)
	if err != nil {
		return 0, nil, err
	}
	endMin, err := minutesOfDay(endTime)
	if err != nil {
		return 0, nil, err
	}
	durationHours := float64(endMin-startMin) / 60

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, nil, err
	}
	isWeekend := day.Weekday() == time.Saturday || day.Weekday() == time.Sunday

	rate := card.WeekdayRate
	if isWeekend {
		rate = card.WeekendRate
	}

	var amount float64
	if card.RateType == models.RateTypeHourly {
		amount = rate * durationHours
	} else {
		// Daily card: full rate from 8h, half-day floor below that.
		if durationHours >= fullDayHours {
			amount = rate
		} else {
			amount = rate * 0.5
		}
	}

	details := &PriceDetails{
		RateType:          card.RateType,
		WeekdayRate:       card.WeekdayRate,
		WeekendRate:       card.WeekendRate,
		AppliedRate:       rate,
		DurationHours:     durationHours,
		IsWeekend:         isWeekend,
		CalculationMethod: card.RateType,
	}
	return amount, details, nil
}

// PriceSlot is the best-effort wrapper used by booking creation: a
// missing rate card or any pricing failure yields a zero price and nil
// details instead of an error, so pricing can never block a booking.
func (s *PricingService) PriceSlot(hallOwnerID, resourceID, date, startTime, endTime string, estimated *float64) (float64, datatypes.JSON) {
	var card models.RateCard
	err := s.DB.Where("hall_owner_id = ? AND resource_id = ?", hallOwnerID, resourceID).First(&card).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger().WithError(err).Warn("rate card lookup failed; booking proceeds unpriced")
		}
		return 0, nil
	}

	amount, details, err := s.ComputePrice(card, date, startTime, endTime)
	if err != nil {
		logger().WithError(err).Warn("price calculation failed; booking proceeds unpriced")
		return 0, nil
	}
	details.FrontendEstimatedPrice = estimated

	raw, err := json.Marshal(details)
	if err != nil {
		return amount, nil
	}
	return amount, datatypes.JSON(raw)
}

// SetRateCard upserts the card for (hallOwnerId, resourceId).
func (s *PricingService) SetRateCard(p Principal, card models.RateCard) (models.RateCard, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return models.RateCard{}, err
	}
	if card.ResourceID == "" {
		return models.RateCard{}, validationf("Missing required field: resourceId")
	}
	if card.RateType != models.RateTypeHourly && card.RateType != models.RateTypeDaily {
		return models.RateCard{}, validationf("Invalid rate type. Must be one of: hourly, daily")
	}
	if card.WeekdayRate < 0 || card.WeekendRate < 0 {
		return models.RateCard{}, validationf("Rates must be non-negative numbers")
	}
	card.HallOwnerID = ownerID

	var existing models.RateCard
	err = s.DB.Where("hall_owner_id = ? AND resource_id = ?", ownerID, card.ResourceID).First(&existing).Error
	switch {
	case err == nil:
		existing.RateType = card.RateType
		existing.WeekdayRate = card.WeekdayRate
		existing.WeekendRate = card.WeekendRate
		if err := s.DB.Save(&existing).Error; err != nil {
			return models.RateCard{}, err
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.DB.Create(&card).Error; err != nil {
			return models.RateCard{}, err
		}
		return card, nil
	default:
		return models.RateCard{}, err
	}
}

// ListRateCards returns all cards for the principal's effective owner.
func (s *PricingService) ListRateCards(p Principal) ([]models.RateCard, error) {
	ownerID, err := ResolveEffectiveOwner(p, "")
	if err != nil {
		return nil, err
	}
	var cards []models.RateCard
	if err := s.DB.Where("hall_owner_id = ?", ownerID).Order("resource_id").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// CalculateGST returns 10% of amount rounded half-up to two decimals.
func CalculateGST(amount float64) float64 {
	return math.Round(amount*GSTRate*100) / 100
}
