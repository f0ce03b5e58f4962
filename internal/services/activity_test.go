package services

import (
	"testing"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActivity(t *testing.T) {
	testutil.SetupDB(t)
	user := testutil.CreateUser(t, "meeple")

	RecordActivity(db.DB, ActivityEntry{UserID: user.ID, Kind: "followed", TargetUserID: 77})
	RecordActivity(db.DB, ActivityEntry{UserID: user.ID, Kind: "registered"})

	var activities []models.UserActivity
	require.NoError(t, db.DB.Order("id").Find(&activities).Error)
	require.Len(t, activities, 2)

	require.NotNil(t, activities[0].TargetUserID)
	assert.Equal(t, uint(77), *activities[0].TargetUserID)
	assert.Nil(t, activities[0].EventID)
	assert.Nil(t, activities[1].TargetUserID)
}
