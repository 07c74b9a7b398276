package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognised across the API.
const (
	RoleHallOwner  = "hall_owner"
	RoleSubUser    = "sub_user"
	RoleSuperAdmin = "super_admin"
	RoleCustomer   = "customer"
)

type User struct {
	UID      string `gorm:"primaryKey;size:64" json:"uid"`
	Email    string `gorm:"uniqueIndex;size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, never returned in JSON
	Name     string `gorm:"size:255" json:"name"`
	Role     string `gorm:"size:32;index" json:"role"`

	// Set for sub_user accounts only. Storage-level ownership of every
	// document a sub-user touches attributes to the parent hall owner.
	ParentUserID *string `gorm:"size:64;index" json:"parentUserId,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
