package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hall-backend/models"
)

// 2026-03-02 is a Monday, 2026-03-07 a Saturday.
const (
	weekday = "2026-03-02"
	weekend = "2026-03-07"
)

func TestComputePrice(t *testing.T) {
	svc := &PricingService{}
	hourly := models.RateCard{RateType: models.RateTypeHourly, WeekdayRate: 50, WeekendRate: 80}
	daily := models.RateCard{RateType: models.RateTypeDaily, WeekdayRate: 400, WeekendRate: 600}

	tests := []struct {
		name       string
		card       models.RateCard
		date       string
		start, end string
		want       float64
	}{
		{"hourly weekday", hourly, weekday, "10:00", "13:00", 150},
		{"hourly weekend", hourly, weekend, "10:00", "13:00", 240},
		{"hourly fractional", hourly, weekday, "10:00", "11:30", 75},
		{"daily full day", daily, weekday, "09:00", "18:00", 400},
		{"daily exactly 8h", daily, weekday, "09:00", "17:00", 400},
		{"daily half day", daily, weekday, "10:00", "13:00", 200},
		{"daily weekend half", daily, weekend, "10:00", "13:00", 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, details, err := svc.ComputePrice(tt.card, tt.date, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount)
			require.NotNil(t, details)
			assert.Equal(t, tt.card.RateType, details.RateType)
		})
	}
}

func TestComputePriceDetailsSnapshot(t *testing.T) {
	svc := &PricingService{}
	card := models.RateCard{RateType: models.RateTypeHourly, WeekdayRate: 50, WeekendRate: 80}

	_, details, err := svc.ComputePrice(card, weekend, "18:00", "22:00")
	require.NoError(t, err)
	assert.True(t, details.IsWeekend)
	assert.Equal(t, 80.0, details.AppliedRate)
	assert.Equal(t, 4.0, details.DurationHours)
	assert.Equal(t, 50.0, details.WeekdayRate)
	assert.Equal(t, 80.0, details.WeekendRate)
}

func TestComputePriceBadInputs(t *testing.T) {
	svc := &PricingService{}
	card := models.RateCard{RateType: models.RateTypeHourly, WeekdayRate: 50, WeekendRate: 80}

	_, _, err := svc.ComputePrice(card, "not-a-date", "10:00", "12:00")
	assert.Error(t, err)
	_, _, err = svc.ComputePrice(card, weekday, "25:00", "26:00")
	assert.Error(t, err)
}

func TestCalculateGST(t *testing.T) {
	assert.Equal(t, 10.0, CalculateGST(100))
	assert.Equal(t, 0.0, CalculateGST(0))
	assert.Equal(t, 12.35, CalculateGST(123.45))
	// Half-up at the second decimal.
	assert.Equal(t, 0.13, CalculateGST(1.25))
}

func TestPriceSlotMissingCard(t *testing.T) {
	db := newTestDB(t)
	svc := NewPricingService(db)

	amount, details := svc.PriceSlot("owner", "hall", weekday, "10:00", "12:00", nil)
	assert.Equal(t, 0.0, amount)
	assert.Nil(t, details)
}

func TestPriceSlotWithCard(t *testing.T) {
	db := newTestDB(t)
	svc := NewPricingService(db)
	owner, hall := seedOwner(t, db)

	card := models.RateCard{
		HallOwnerID: owner.UID,
		ResourceID:  hall.ID,
		RateType:    models.RateTypeHourly,
		WeekdayRate: 50,
		WeekendRate: 80,
	}
	require.NoError(t, db.Create(&card).Error)

	estimated := 999.0
	amount, details := svc.PriceSlot(owner.UID, hall.ID, weekday, "10:00", "13:00", &estimated)
	assert.Equal(t, 150.0, amount)
	assert.Contains(t, string(details), `"frontendEstimatedPrice":999`)
}

func TestSetRateCardUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewPricingService(db)
	owner, hall := seedOwner(t, db)
	p := ownerPrincipal(owner)

	created, err := svc.SetRateCard(p, models.RateCard{
		ResourceID: hall.ID, RateType: models.RateTypeHourly, WeekdayRate: 50, WeekendRate: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.UID, created.HallOwnerID)

	updated, err := svc.SetRateCard(p, models.RateCard{
		ResourceID: hall.ID, RateType: models.RateTypeDaily, WeekdayRate: 400, WeekendRate: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, models.RateTypeDaily, updated.RateType)

	cards, err := svc.ListRateCards(p)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestSetRateCardValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPricingService(db)
	owner, hall := seedOwner(t, db)
	p := ownerPrincipal(owner)

	_, err := svc.SetRateCard(p, models.RateCard{RateType: models.RateTypeHourly})
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.SetRateCard(p, models.RateCard{ResourceID: hall.ID, RateType: "monthly"})
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.SetRateCard(p, models.RateCard{ResourceID: hall.ID, RateType: models.RateTypeHourly, WeekdayRate: -1})
	assert.IsType(t, &ValidationError{}, err)
}
