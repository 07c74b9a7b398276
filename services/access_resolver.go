package services

import (
	"errors"

	"gorm.io/gorm"

	"hall-backend/models"
)

// Principal is the authenticated caller as loaded from the users table.
// Role and ParentUserID always come from the store, never from token
// claims, so a stale token cannot escalate a demoted account.
type Principal struct {
	UID          string
	Email        string
	Role         string
	ParentUserID string
}

// AccessResolver centralises the owner/sub-user branching that gates
// every hall-owner resource. A sub-user always acts under its parent's
// identity; the parent id is the "effective owner" every document is
// keyed by.
type AccessResolver struct {
	DB *gorm.DB
}

func NewAccessResolver(db *gorm.DB) *AccessResolver {
	return &AccessResolver{DB: db}
}

// LoadPrincipal fetches the caller's user row by uid.
func (r *AccessResolver) LoadPrincipal(uid string) (Principal, error) {
	var user models.User
	if err := r.DB.First(&user, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, ErrUserNotFound
		}
		return Principal{}, err
	}
	p := Principal{UID: user.UID, Email: user.Email, Role: user.Role}
	if user.ParentUserID != nil {
		p.ParentUserID = *user.ParentUserID
	}
	return p, nil
}

// ResolveEffectiveOwner decides whether the principal may act on
// resources of claimedOwnerID and returns the hall-owner id the action
// is attributed to. Pass an empty claimedOwnerID for creation flows
// where the owner is derived from the principal itself.
//
// Pure decision function: no store access, no side effects.
func ResolveEffectiveOwner(p Principal, claimedOwnerID string) (string, error) {
	switch p.Role {
	case models.RoleHallOwner:
		if claimedOwnerID != "" && p.UID != claimedOwnerID {
			return "", ErrAccessDenied
		}
		return p.UID, nil
	case models.RoleSubUser:
		if p.ParentUserID == "" {
			return "", ErrNoParentOwner
		}
		if claimedOwnerID != "" && p.ParentUserID != claimedOwnerID {
			return "", ErrAccessDenied
		}
		return p.ParentUserID, nil
	default:
		return "", ErrRoleNotAllowed
	}
}
