package types

import (
	"time"

	"github.com/JakubEth/gramytu/internal/models"
)

type EventResponse struct {
	ID                uint        `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Date              time.Time   `json:"date"`
	Location          string      `json:"location"`
	Latitude          *float64    `json:"latitude"`
	Longitude         *float64    `json:"longitude"`
	MaxParticipants   int         `json:"max_participants"`
	Host              UserSummary `json:"host"`
	Tags              []string    `json:"tags"`
	ParticipantsCount int64       `json:"participants_count"`
	LikesCount        int64       `json:"likes_count"`
	Liked             bool        `json:"liked"`
	Joined            bool        `json:"joined"`
	CreatedAt         time.Time   `json:"created_at"`
}

type EventDetailResponse struct {
	EventResponse

	Participants []UserSummary `json:"participants"`
}

type CommentResponse struct {
	ID        uint        `json:"id"`
	EventID   uint        `json:"event_id"`
	Author    UserSummary `json:"author"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

type MessageResponse struct {
	ID        uint        `json:"id"`
	EventID   uint        `json:"event_id"`
	Author    UserSummary `json:"author"`
	Text      string      `json:"text"`
	ReadBy    []uint      `json:"read_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewEventResponse expects Host and Tags to be preloaded.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Date:            event.Date,
		Location:        event.Location,
		Latitude:        event.Latitude,
		Longitude:       event.Longitude,
		MaxParticipants: event.MaxParticipants,
		Host:            NewUserSummary(event.Host),
		Tags:            event.TagNames(),
		CreatedAt:       event.CreatedAt,
	}
}

func NewCommentResponse(comment models.EventComment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		EventID:   comment.EventID,
		Author:    NewUserSummary(comment.Author),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func NewMessageResponse(message models.ChatMessage) MessageResponse {
	readBy := make([]uint, 0, len(message.Reads))
	for _, read := range message.Reads {
		readBy = append(readBy, read.UserID)
	}

	return MessageResponse{
		ID:        message.ID,
		EventID:   message.EventID,
		Author:    NewUserSummary(message.Author),
		Text:      message.Text,
		ReadBy:    readBy,
		CreatedAt: message.CreatedAt,
	}
}
