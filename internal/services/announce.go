package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/JakubEth/gramytu/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen = 65280 // #00FF00

	Username   = "GramyTu"
	dateLayout = "2006-01-02 15:04 MST"
)

type Announcer struct {
	DiscordWebhookURL string
	SlackWebhookURL   string
	Client            *http.Client
}

func NewAnnouncer(discordURL, slackURL string) *Announcer {
	return &Announcer{
		DiscordWebhookURL: discordURL,
		SlackWebhookURL:   slackURL,
		Client:            &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *Announcer) Enabled() bool {
	return a != nil && (a.DiscordWebhookURL != "" || a.SlackWebhookURL != "")
}

// AnnounceEventCreated posts a new event to every configured webhook. The
// event's Host and Tags must be loaded.
func (a *Announcer) AnnounceEventCreated(ctx context.Context, event models.Event) error {
	if !a.Enabled() {
		return nil
	}

	if a.DiscordWebhookURL != "" {
		if err := a.post(ctx, a.DiscordWebhookURL, discordEventPayload(event)); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if a.SlackWebhookURL != "" {
		if err := a.post(ctx, a.SlackWebhookURL, slackEventPayload(event)); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

// AnnounceInBackground is fire-and-forget for request handlers.
func (a *Announcer) AnnounceInBackground(event models.Event) {
	if !a.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := a.AnnounceEventCreated(ctx, event); err != nil {
			log.Printf("announce: event %d: %v", event.ID, err)
		}
	}()
}

func eventFields(event models.Event) (string, string, string) {
	location := event.Location
	if location == "" {
		location = "TBA"
	}

	seats := "Unlimited"
	if event.MaxParticipants > 0 {
		seats = fmt.Sprintf("%d", event.MaxParticipants)
	}

	tags := strings.Join(event.TagNames(), ", ")
	if tags == "" {
		tags = "-"
	}

	return location, seats, tags
}

func discordEventPayload(event models.Event) DiscordWebhookRequest {
	location, seats, tags := eventFields(event)

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "🎲 New event: " + event.Title,
				Description: event.Description,
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "📅 When", Value: event.Date.Format(dateLayout), Inline: true},
					{Name: "📍 Where", Value: location, Inline: true},
					{Name: "👥 Seats", Value: seats, Inline: true},
					{Name: "🏷️ Tags", Value: tags, Inline: false},
				},
				Footer: &DiscordFooter{
					Text: "Hosted by " + event.Host.Username,
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}
}

func slackEventPayload(event models.Event) SlackWebhookRequest {
	location, seats, tags := eventFields(event)

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":game_die:",
		Text:      ":game_die: *New event on GramyTu*",
		Attachments: []SlackAttachment{
			{
				Color: "good",
				Title: event.Title,
				Text:  event.Description,
				Fields: []SlackField{
					{Title: "When", Value: event.Date.Format(dateLayout), Short: true},
					{Title: "Where", Value: location, Short: true},
					{Title: "Seats", Value: seats, Short: true},
					{Title: "Tags", Value: tags, Short: true},
				},
				Footer:    "Hosted by " + event.Host.Username,
				Timestamp: time.Now().Unix(),
			},
		},
	}
}

func (a *Announcer) post(ctx context.Context, webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
