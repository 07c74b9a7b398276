package services

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hall-backend/config"
	"hall-backend/models"
)

// newTestDB opens a private in-memory sqlite database with the full
// schema applied. Each test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// seedOwner creates a hall owner with one hall and returns both.
func seedOwner(t *testing.T, db *gorm.DB) (models.User, models.Hall) {
	t.Helper()
	owner := models.User{
		UID:   uuid.NewString(),
		Email: uuid.NewString() + "@example.com",
		Name:  "Owner",
		Role:  models.RoleHallOwner,
	}
	require.NoError(t, db.Create(&owner).Error)

	hall := models.Hall{
		ID:          uuid.NewString(),
		HallOwnerID: owner.UID,
		Name:        "Main Hall",
		Capacity:    200,
	}
	require.NoError(t, db.Create(&hall).Error)
	return owner, hall
}

func seedSubUser(t *testing.T, db *gorm.DB, parent models.User) models.User {
	t.Helper()
	sub := models.User{
		UID:          uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		Name:         "Assistant",
		Role:         models.RoleSubUser,
		ParentUserID: &parent.UID,
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

func ownerPrincipal(u models.User) Principal {
	p := Principal{UID: u.UID, Email: u.Email, Role: u.Role}
	if u.ParentUserID != nil {
		p.ParentUserID = *u.ParentUserID
	}
	return p
}

// futureDate returns an ISO date n days from now.
func futureDate(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}
