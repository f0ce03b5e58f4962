package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/types"
	"gorm.io/gorm/clause"
)

const MaxMessageLength = 2000

var (
	ErrNotMember      = errors.New("not a participant of this event")
	ErrEmptyMessage   = errors.New("message text is required")
	ErrMessageTooLong = fmt.Errorf("message is longer than %d characters", MaxMessageLength)
)

// Store persists chat state. The hub only relays what the store accepted.
type Store interface {
	IsMember(eventID, userID uint) (bool, error)
	SaveMessage(eventID, authorID uint, text string) (types.MessageResponse, error)
	MarkRead(eventID, userID uint) (int64, error)
}

// NormalizeText trims text and enforces the length limit.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", ErrEmptyMessage
	}

	if utf8.RuneCountInString(text) > MaxMessageLength {
		return "", ErrMessageTooLong
	}

	return text, nil
}

// GormStore reads and writes through db.DB.
type GormStore struct{}

func (GormStore) IsMember(eventID, userID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (GormStore) SaveMessage(eventID, authorID uint, text string) (types.MessageResponse, error) {
	message := models.ChatMessage{
		EventID:  eventID,
		AuthorID: authorID,
		Text:     text,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		return types.MessageResponse{}, fmt.Errorf("failed to save message: %w", err)
	}

	if err := db.DB.First(&message.Author, authorID).Error; err != nil {
		return types.MessageResponse{}, fmt.Errorf("failed to load author: %w", err)
	}

	return types.NewMessageResponse(message), nil
}

// MarkRead stores a receipt for every message in the room the user has not
// read yet, skipping the user's own messages. It returns how many were marked.
func (GormStore) MarkRead(eventID, userID uint) (int64, error) {
	var messageIDs []uint

	err := db.DB.Model(&models.ChatMessage{}).
		Where("event_id = ? AND author_id <> ?", eventID, userID).
		Where("id NOT IN (?)", db.DB.Model(&models.MessageRead{}).Select("message_id").Where("user_id = ?", userID)).
		Pluck("id", &messageIDs).Error

	if err != nil {
		return 0, fmt.Errorf("failed to find unread messages: %w", err)
	}

	if len(messageIDs) == 0 {
		return 0, nil
	}

	return storeReceipts(userID, messageIDs)
}

// storeReceipts skips receipts that already exist and reports how many rows
// it inserted.
func storeReceipts(userID uint, messageIDs []uint) (int64, error) {
	now := time.Now()
	reads := make([]models.MessageRead, 0, len(messageIDs))

	for _, id := range messageIDs {
		reads = append(reads, models.MessageRead{MessageID: id, UserID: userID, ReadAt: now})
	}

	result := db.DB.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&reads, 100)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to store read receipts: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// History returns up to limit messages older than beforeID (0 means newest),
// oldest first.
func (GormStore) History(eventID, beforeID uint, limit int) ([]types.MessageResponse, error) {
	var messages []models.ChatMessage

	query := db.DB.Preload("Author").Preload("Reads").
		Where("event_id = ?", eventID)

	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	if err := query.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	response := make([]types.MessageResponse, 0, len(messages))

	for i := len(messages) - 1; i >= 0; i-- {
		response = append(response, types.NewMessageResponse(messages[i]))
	}

	return response, nil
}

type UnreadCount struct {
	EventID uint  `json:"event_id"`
	Count   int64 `json:"count"`
}

// UnreadCounts returns, per joined event, how many messages by others the
// user has not read.
func (GormStore) UnreadCounts(userID uint) ([]UnreadCount, error) {
	counts := []UnreadCount{}

	err := db.DB.Model(&models.ChatMessage{}).
		Select("chat_messages.event_id AS event_id, COUNT(*) AS count").
		Joins("JOIN event_participants ON event_participants.event_id = chat_messages.event_id AND event_participants.user_id = ?", userID).
		Where("chat_messages.author_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads WHERE message_reads.message_id = chat_messages.id AND message_reads.user_id = ?)", userID).
		Group("chat_messages.event_id").
		Order("chat_messages.event_id").
		Scan(&counts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return counts, nil
}
