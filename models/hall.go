package models

import (
	"time"

	"gorm.io/gorm"
)

// Hall is a bookable venue resource belonging to one hall owner.
type Hall struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	HallOwnerID string `gorm:"size:64;index" json:"hallOwnerId"`

	Name        string `gorm:"size:255" json:"name"`
	Capacity    int    `json:"capacity"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
