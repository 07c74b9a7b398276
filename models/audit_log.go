package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one mutation performed through the API. Writes are
// fire-and-forget: a failed audit insert never fails the operation that
// produced it.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    string `gorm:"size:64;index" json:"userId"`
	UserEmail string `gorm:"size:150" json:"userEmail"`
	UserRole  string `gorm:"size:32" json:"userRole"`

	Action     string `gorm:"size:64;index" json:"action"` // e.g. booking_created
	TargetType string `gorm:"size:32" json:"targetType"`   // booking | quotation | invoice | payment | user
	Target     string `gorm:"size:255" json:"target"`

	Changes        datatypes.JSON `json:"changes,omitempty"`
	IPAddress      string         `gorm:"size:64" json:"ipAddress"`
	HallID         string         `gorm:"size:64;index" json:"hallId"`
	AdditionalInfo string         `gorm:"type:text" json:"additionalInfo"`

	Timestamp time.Time `gorm:"index" json:"timestamp"`
}
