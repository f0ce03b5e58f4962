// Package testutil wires an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDB points db.DB at a fresh in-memory SQLite database for the test.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, time.Now().UnixNano())

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	previous := db.DB
	db.DB = conn
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		sqlDB.Close()
		db.DB = previous
	})

	return conn
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, username string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Name:         strings.ToUpper(username[:1]) + username[1:],
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

// CreateEvent inserts an event hosted by host, with the host as first participant.
func CreateEvent(t *testing.T, host models.User, title string, date time.Time, tags ...string) models.Event {
	t.Helper()

	event := models.Event{
		Title:    title,
		Date:     date.UTC(),
		Location: "Warszawa",
		HostID:   host.ID,
	}
	require.NoError(t, db.DB.Create(&event).Error)
	require.NoError(t, db.DB.Create(&models.EventParticipant{EventID: event.ID, UserID: host.ID}).Error)

	for _, tag := range tags {
		require.NoError(t, db.DB.Create(&models.EventTag{EventID: event.ID, Name: tag}).Error)
	}

	return event
}

// Join adds user to event.
func Join(t *testing.T, event models.Event, user models.User) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.EventParticipant{EventID: event.ID, UserID: user.ID}).Error)
}

// Tomorrow is a UTC time one day ahead, truncated to the second.
func Tomorrow() time.Time {
	return time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
}
