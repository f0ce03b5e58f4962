package scheduler

import (
	"testing"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/testutil"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReminders(t *testing.T) {
	testutil.SetupDB(t)

	host := testutil.CreateUser(t, "host")
	guest := testutil.CreateUser(t, "guest")

	now := time.Now().UTC()
	soon := testutil.CreateEvent(t, host, "Catan wieczorem", now.Add(2*time.Hour))
	later := testutil.CreateEvent(t, host, "Gloomhaven", now.Add(72*time.Hour))
	testutil.Join(t, soon, guest)
	testutil.Join(t, later, guest)

	s := NewScheduler(24*time.Hour, 0)

	sent, err := s.SendReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var reminders []models.UserActivity
	require.NoError(t, db.DB.Where("kind = ?", types.ActivityEventReminder).Order("user_id").Find(&reminders).Error)
	require.Len(t, reminders, 2)
	assert.Equal(t, host.ID, reminders[0].UserID)
	assert.Equal(t, guest.ID, reminders[1].UserID)
	require.NotNil(t, reminders[0].EventID)
	assert.Equal(t, soon.ID, *reminders[0].EventID)
	assert.Equal(t, "Catan wieczorem", reminders[0].Detail)

	var reloaded models.Event
	require.NoError(t, db.DB.First(&reloaded, soon.ID).Error)
	assert.NotNil(t, reloaded.ReminderSentAt)

	sent, err = s.SendReminders()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestSendReminders_SkipsPastEvents(t *testing.T) {
	testutil.SetupDB(t)

	host := testutil.CreateUser(t, "host")
	testutil.CreateEvent(t, host, "Wczoraj", time.Now().UTC().Add(-2*time.Hour))

	sent, err := NewScheduler(24*time.Hour, 0).SendReminders()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestPruneActivity(t *testing.T) {
	testutil.SetupDB(t)

	user := testutil.CreateUser(t, "meeple")

	old := models.UserActivity{UserID: user.ID, Kind: types.ActivityRegistered}
	fresh := models.UserActivity{UserID: user.ID, Kind: types.ActivityFollowed}
	require.NoError(t, db.DB.Create(&old).Error)
	require.NoError(t, db.DB.Create(&fresh).Error)
	require.NoError(t, db.DB.Model(&old).Update("created_at", time.Now().UTC().Add(-100*24*time.Hour)).Error)

	pruned, err := NewScheduler(time.Hour, 90*24*time.Hour).PruneActivity()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	var remaining []models.UserActivity
	require.NoError(t, db.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}

func TestPruneActivity_DisabledRetention(t *testing.T) {
	testutil.SetupDB(t)

	pruned, err := NewScheduler(time.Hour, 0).PruneActivity()
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(time.Hour, time.Hour)
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
