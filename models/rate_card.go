package models

import "time"

const (
	RateTypeHourly = "hourly"
	RateTypeDaily  = "daily"
)

// RateCard is the per-resource pricing configuration. One card per
// (hallOwnerId, resourceId) pair; upserts replace the existing card.
type RateCard struct {
	ID uint `gorm:"primaryKey" json:"id"`

	HallOwnerID string `gorm:"size:64;uniqueIndex:idx_rate_card_owner_resource" json:"hallOwnerId"`
	ResourceID  string `gorm:"size:64;uniqueIndex:idx_rate_card_owner_resource" json:"resourceId"`

	RateType    string  `gorm:"size:16" json:"rateType"` // hourly | daily
	WeekdayRate float64 `json:"weekdayRate"`
	WeekendRate float64 `json:"weekendRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
