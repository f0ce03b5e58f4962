package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	r := newTestRouter(t)
	testutil.CreateUser(t, "alice")
	testutil.CreateUser(t, "bob")
	testutil.CreateUser(t, "albert")

	rec := doJSON(r, http.MethodGet, "/api/users?q=AL", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	users := list(t, body, "users")
	require.Len(t, users, 2)
	assert.Equal(t, "albert", users[0].(map[string]interface{})["username"])
	assert.Equal(t, "alice", users[1].(map[string]interface{})["username"])
	assert.Equal(t, float64(2), field(t, body, "meta")["total"])
	assert.NotContains(t, users[0], "email")
}

func TestFollowFlow(t *testing.T) {
	r := newTestRouter(t)
	alice := testutil.CreateUser(t, "alice")
	bob := testutil.CreateUser(t, "bob")
	token := tokenFor(t, alice)
	path := fmt.Sprintf("/api/users/%d/follow", bob.ID)

	rec := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", alice.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for i := 0; i < 2; i++ {
		rec = doJSON(r, http.MethodPost, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, float64(1), decode(t, rec)["followers_count"])
	}

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", bob.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	followers := list(t, decode(t, rec), "users")
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].(map[string]interface{})["username"])

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/following", alice.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list(t, decode(t, rec), "users"), 1)

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := field(t, decode(t, rec), "user")
	assert.Equal(t, true, profile["is_following"])
	assert.Equal(t, float64(1), profile["followers_count"])

	rec = doJSON(r, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["followers_count"])

	rec = doJSON(r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(r, http.MethodPost, "/api/users/999/follow", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserProfile(t *testing.T) {
	r := newTestRouter(t)
	alice := testutil.CreateUser(t, "alice")
	bob := testutil.CreateUser(t, "bob")
	carol := testutil.CreateUser(t, "carol")
	testutil.CreateEvent(t, alice, "Catan", testutil.Tomorrow())
	require.NoError(t, db.DB.Create(&models.UserReview{AuthorID: bob.ID, TargetID: alice.ID, Rating: 5}).Error)
	require.NoError(t, db.DB.Create(&models.UserReview{AuthorID: carol.ID, TargetID: alice.ID, Rating: 4}).Error)

	rec := doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	profile := field(t, decode(t, rec), "user")
	assert.Equal(t, float64(1), profile["hosted_count"])
	assert.Equal(t, float64(2), profile["reviews_count"])
	assert.InDelta(t, 4.5, profile["average_rating"], 0.001)
	assert.NotContains(t, profile, "email")

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, field(t, decode(t, rec), "user")["average_rating"])

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", field(t, decode(t, rec), "user")["email"])

	rec = doJSON(r, http.MethodGet, "/api/users/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserEvents(t *testing.T) {
	r := newTestRouter(t)
	alice := testutil.CreateUser(t, "alice")
	bob := testutil.CreateUser(t, "bob")
	testutil.CreateEvent(t, alice, "Alice hosts", testutil.Tomorrow())
	bobs := testutil.CreateEvent(t, bob, "Bob hosts", testutil.Tomorrow())
	testutil.Join(t, bobs, alice)

	rec := doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/events", alice.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	hosted := list(t, body, "hosted")
	joined := list(t, body, "joined")
	require.Len(t, hosted, 1)
	require.Len(t, joined, 1)
	assert.Equal(t, "Alice hosts", hosted[0].(map[string]interface{})["title"])
	assert.Equal(t, "Bob hosts", joined[0].(map[string]interface{})["title"])
	assert.Equal(t, float64(2), joined[0].(map[string]interface{})["participants_count"])
}

func TestReviews(t *testing.T) {
	r := newTestRouter(t)
	alice := testutil.CreateUser(t, "alice")
	bob := testutil.CreateUser(t, "bob")
	token := tokenFor(t, alice)
	path := fmt.Sprintf("/api/users/%d/reviews", bob.ID)

	rec := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/reviews", alice.ID), token, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPost, path, token, map[string]interface{}{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPost, path, token, map[string]interface{}{"rating": 3, "comment": "Spóźnił się"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(r, http.MethodPost, path, token, map[string]interface{}{"rating": 5, "comment": "Świetny gracz"})
	require.Equal(t, http.StatusOK, rec.Code)
	review := field(t, decode(t, rec), "review")
	assert.Equal(t, float64(5), review["rating"])
	assert.Equal(t, "alice", field(t, review, "author")["username"])

	rec = doJSON(r, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, list(t, body, "reviews"), 1)
	assert.InDelta(t, 5.0, body["average_rating"], 0.001)

	rec = doJSON(r, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUserActivity(t *testing.T) {
	r := newTestRouter(t)
	alice := testutil.CreateUser(t, "alice")
	bob := testutil.CreateUser(t, "bob")
	token := tokenFor(t, alice)

	rec := doJSON(r, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bob.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	event := testutil.CreateEvent(t, bob, "Catan", testutil.Tomorrow())
	rec = doJSON(r, http.MethodPost, fmt.Sprintf("/api/events/%d/join", event.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/activity", alice.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/activity", alice.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	activities := list(t, body, "activities")
	require.Len(t, activities, 2)
	assert.Equal(t, "event_joined", activities[0].(map[string]interface{})["kind"])
	assert.Equal(t, "followed", activities[1].(map[string]interface{})["kind"])

	rec = doJSON(r, http.MethodGet, fmt.Sprintf("/api/users/%d/activity?kind=followed", alice.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list(t, decode(t, rec), "activities"), 1)
}
