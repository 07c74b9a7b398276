package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hall-backend/models"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(db, NewTokenService("session-secret", "legacy-secret", time.Hour))
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	owner := models.User{
		UID:      uuid.NewString(),
		Email:    "owner@example.com",
		Password: string(hash),
		Name:     "Owner",
		Role:     models.RoleHallOwner,
	}
	require.NoError(t, db.Create(&owner).Error)

	user, token, err := svc.Login("Owner@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, owner.UID, user.UID)
	assert.NotEmpty(t, token)

	uid, err := svc.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, owner.UID, uid)

	_, _, err = svc.Login("owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("ghost@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateSubUser(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	owner, _ := seedOwner(t, db)
	p := ownerPrincipal(owner)

	sub, err := svc.CreateSubUser(p, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "longenough",
		Name:     "Helper",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSubUser, sub.Role)
	require.NotNil(t, sub.ParentUserID)
	assert.Equal(t, owner.UID, *sub.ParentUserID)

	// Sub-users cannot mint further sub-users.
	_, err = svc.CreateSubUser(ownerPrincipal(sub), CreateSubUserInput{
		Email: "deeper@example.com", Password: "longenough", Name: "Deeper",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	var verr *ValidationError
	_, err = svc.CreateSubUser(p, CreateSubUserInput{Email: "helper@example.com", Password: "longenough", Name: "Dup"})
	assert.ErrorAs(t, err, &verr)
	_, err = svc.CreateSubUser(p, CreateSubUserInput{Email: "short@example.com", Password: "short", Name: "S"})
	assert.ErrorAs(t, err, &verr)

	subs, err := svc.ListSubUsers(p)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
