package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JakubEth/gramytu/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() models.Event {
	event := models.Event{
		Title:           "Catan night",
		Description:     "Bring snacks",
		Date:            time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC),
		Location:        "Kraków",
		MaxParticipants: 4,
		Host:            models.User{Username: "meeple"},
		Tags:            []models.EventTag{{Name: "strategy"}},
	}
	event.ID = 9
	return event
}

func TestAnnounceEventCreated_Discord(t *testing.T) {
	var received DiscordWebhookRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	announcer := NewAnnouncer(server.URL, "")
	require.NoError(t, announcer.AnnounceEventCreated(context.Background(), sampleEvent()))

	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "🎲 New event: Catan night", received.Embeds[0].Title)
	assert.Equal(t, "Hosted by meeple", received.Embeds[0].Footer.Text)
	assert.Equal(t, "4", received.Embeds[0].Fields[2].Value)
	assert.Equal(t, "strategy", received.Embeds[0].Fields[3].Value)
}

func TestAnnounceEventCreated_SlackFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	announcer := NewAnnouncer("", server.URL)
	err := announcer.AnnounceEventCreated(context.Background(), sampleEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack")
}

func TestAnnouncer_Disabled(t *testing.T) {
	var announcer *Announcer
	assert.False(t, announcer.Enabled())
	assert.NoError(t, announcer.AnnounceEventCreated(context.Background(), sampleEvent()))
	assert.False(t, NewAnnouncer("", "").Enabled())
}

func TestSlackPayload_DefaultsForMissingFields(t *testing.T) {
	event := sampleEvent()
	event.Location = ""
	event.MaxParticipants = 0
	event.Tags = nil

	payload := slackEventPayload(event)

	fields := payload.Attachments[0].Fields
	assert.Equal(t, "TBA", fields[1].Value)
	assert.Equal(t, "Unlimited", fields[2].Value)
	assert.Equal(t, "-", fields[3].Value)
}
