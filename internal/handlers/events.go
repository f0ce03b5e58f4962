package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/monitoring"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateEventRequest struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Description     string    `json:"description" binding:"max=5000"`
	Date            time.Time `json:"date" binding:"required"`
	Location        string    `json:"location" binding:"max=255"`
	Latitude        *float64  `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64  `json:"longitude" binding:"omitempty,longitude"`
	MaxParticipants int       `json:"max_participants" binding:"min=0,max=1000"`
	Tags            []string  `json:"tags" binding:"max=10,dive,eventtag"`
}

type UpdateEventRequest struct {
	Title            *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string    `json:"description" binding:"omitempty,max=5000"`
	Date             *time.Time `json:"date"`
	Location         *string    `json:"location" binding:"omitempty,max=255"`
	Latitude         *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude        *float64   `json:"longitude" binding:"omitempty,longitude"`
	ClearCoordinates bool       `json:"clear_coordinates"` // removes the map pin
	MaxParticipants  *int       `json:"max_participants" binding:"omitempty,min=0,max=1000"`
	Tags             *[]string  `json:"tags" binding:"omitempty,max=10,dive,eventtag"`
}

var eventSortColumns = map[string]string{
	"date":       "event_date",
	"created_at": "created_at",
	"likes":      "(SELECT COUNT(*) FROM event_likes WHERE event_likes.event_id = events.id)",
}

type eventFilters struct {
	Query    string
	Tag      string
	Location string
	HostID   uint
	From     *time.Time
	To       *time.Time
	Upcoming bool
}

func parseEventFilters(ctx *gin.Context) (eventFilters, error) {
	filters := eventFilters{
		Query:    strings.ToLower(strings.TrimSpace(ctx.Query("q"))),
		Tag:      utils.NormalizeTag(ctx.Query("tag")),
		Location: strings.ToLower(strings.TrimSpace(ctx.Query("location"))),
		Upcoming: ctx.Query("upcoming") == "true",
	}

	if raw := ctx.Query("host_id"); raw != "" {
		hostID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filters, errInvalidFilter("host_id")
		}
		filters.HostID = uint(hostID)
	}

	from, err := parseTimeFilter(ctx, "from")
	if err != nil {
		return filters, err
	}
	filters.From = from

	to, err := parseTimeFilter(ctx, "to")
	if err != nil {
		return filters, err
	}
	filters.To = to

	return filters, nil
}

func parseTimeFilter(ctx *gin.Context, name string) (*time.Time, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errInvalidFilter(name)
	}

	return &parsed, nil
}

type errInvalidFilter string

func (e errInvalidFilter) Error() string {
	return "Invalid " + string(e) + " filter"
}

func (f eventFilters) apply(query *gorm.DB) *gorm.DB {
	if f.Query != "" {
		like := "%" + f.Query + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if f.Tag != "" {
		query = query.Where("id IN (?)", db.DB.Model(&models.EventTag{}).Select("event_id").Where("name = ?", f.Tag))
	}

	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+f.Location+"%")
	}

	if f.HostID != 0 {
		query = query.Where("host_id = ?", f.HostID)
	}

	if f.From != nil {
		query = query.Where("event_date >= ?", f.From.UTC())
	}

	if f.To != nil {
		query = query.Where("event_date <= ?", f.To.UTC())
	}

	if f.Upcoming {
		query = query.Where("event_date >= ?", time.Now().UTC())
	}

	return query
}

func ListEvents(ctx *gin.Context) {
	filters, err := parseEventFilters(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pagination := utils.ParsePagination(ctx, "date", "asc")

	var total int64
	if err := filters.apply(db.DB.Model(&models.Event{})).Count(&total).Error; err != nil {
		internalError(ctx, "Failed to count events: %v", err)
		return
	}

	var events []models.Event

	err = filters.apply(db.DB.Model(&models.Event{})).
		Preload("Host").Preload("Tags").
		Order(pagination.OrderClause(eventSortColumns, "date")).
		Order("id ASC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&events).Error

	if err != nil {
		internalError(ctx, "Failed to list events: %v", err)
		return
	}

	response, err := buildEventResponses(events, utils.GetOptionalUserID(ctx))
	if err != nil {
		internalError(ctx, "Failed to build event responses: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"events": response,
		"meta":   utils.BuildMeta(total, pagination),
	})
}

func eventDetail(eventID, viewerID uint) (types.EventDetailResponse, error) {
	var event models.Event

	err := db.DB.Preload("Host").Preload("Tags").
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC").Order("id ASC") }).
		Preload("Participants.User").
		First(&event, eventID).Error

	if err != nil {
		return types.EventDetailResponse{}, err
	}

	responses, err := buildEventResponses([]models.Event{event}, viewerID)
	if err != nil {
		return types.EventDetailResponse{}, err
	}

	participants := make([]types.UserSummary, 0, len(event.Participants))
	for _, participant := range event.Participants {
		participants = append(participants, types.NewUserSummary(participant.User))
	}

	return types.EventDetailResponse{
		EventResponse: responses[0],
		Participants:  participants,
	}, nil
}

func GetEvent(ctx *gin.Context) {
	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	detail, err := eventDetail(event.ID, utils.GetOptionalUserID(ctx))
	if err != nil {
		internalError(ctx, "Failed to load event %d: %v", event.ID, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": detail})
}

func replaceTags(tx *gorm.DB, eventID uint, tags []string) error {
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventTag{}).Error; err != nil {
		return err
	}

	if len(tags) == 0 {
		return nil
	}

	rows := make([]models.EventTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.EventTag{EventID: eventID, Name: tag})
	}

	return tx.Create(&rows).Error
}

func CreateEvent(ctx *gin.Context) {
	hostID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	var req CreateEventRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	if !req.Date.After(time.Now()) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Event date must be in the future"})
		return
	}

	tags, err := utils.NormalizeTags(req.Tags)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		Date:            req.Date.UTC(),
		Location:        strings.TrimSpace(req.Location),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		MaxParticipants: req.MaxParticipants,
		HostID:          hostID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.EventParticipant{EventID: event.ID, UserID: hostID}).Error; err != nil {
			return err
		}

		return replaceTags(tx, event.ID, tags)
	})

	if err != nil {
		internalError(ctx, "Failed to create event: %v", err)
		return
	}

	if err := db.DB.Preload("Host").Preload("Tags").First(&event, event.ID).Error; err != nil {
		internalError(ctx, "Failed to reload event %d: %v", event.ID, err)
		return
	}

	monitoring.EventCreated()

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID:  hostID,
		Kind:    types.ActivityEventCreated,
		EventID: event.ID,
		Detail:  event.Title,
	})

	if announcer != nil {
		announcer.AnnounceInBackground(event)
	}

	response := types.NewEventResponse(event)
	response.ParticipantsCount = 1
	response.Joined = true

	ctx.JSON(http.StatusCreated, gin.H{"event": response})
}

// loadHostedEvent loads :event_id and checks the caller hosts it.
func loadHostedEvent(ctx *gin.Context) (models.Event, bool) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return models.Event{}, false
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return event, false
	}

	if event.HostID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the host can modify this event"})
		return event, false
	}

	return event, true
}

func UpdateEvent(ctx *gin.Context) {
	event, ok := loadHostedEvent(ctx)
	if !ok {
		return
	}

	var req UpdateEventRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		updates["title"] = title
	}

	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if req.Date != nil {
		if !req.Date.After(time.Now()) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Event date must be in the future"})
			return
		}
		updates["event_date"] = req.Date.UTC()
		// A moved event gets a fresh reminder.
		updates["reminder_sent_at"] = nil
	}

	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}

	if req.ClearCoordinates {
		if req.Latitude != nil || req.Longitude != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "clear_coordinates cannot be combined with latitude or longitude"})
			return
		}
		updates["latitude"] = nil
		updates["longitude"] = nil
	}

	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}

	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	if req.MaxParticipants != nil {
		if *req.MaxParticipants > 0 {
			count, err := countParticipants(event.ID)
			if err != nil {
				internalError(ctx, "Failed to count participants: %v", err)
				return
			}

			if count > int64(*req.MaxParticipants) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "max_participants is below the current participant count"})
				return
			}
		}
		updates["max_participants"] = *req.MaxParticipants
	}

	var tags []string
	if req.Tags != nil {
		normalized, err := utils.NormalizeTags(*req.Tags)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tags = normalized
	}

	if len(updates) == 0 && req.Tags == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&event).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Tags != nil {
			return replaceTags(tx, event.ID, tags)
		}

		return nil
	})

	if err != nil {
		internalError(ctx, "Failed to update event %d: %v", event.ID, err)
		return
	}

	detail, err := eventDetail(event.ID, event.HostID)
	if err != nil {
		internalError(ctx, "Failed to reload event %d: %v", event.ID, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully",
		"event":   detail,
	})
}

func DeleteEvent(ctx *gin.Context) {
	event, ok := loadHostedEvent(ctx)
	if !ok {
		return
	}

	if err := db.DB.Delete(&event).Error; err != nil {
		internalError(ctx, "Failed to delete event %d: %v", event.ID, err)
		return
	}

	chatHub.CloseRoom(event.ID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
