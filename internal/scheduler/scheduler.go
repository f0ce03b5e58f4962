package scheduler

import (
	"log"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	reminderSchedule = "@hourly"
	pruneSchedule    = "15 3 * * *"
	stopTimeout      = 30 * time.Second
)

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron              *cron.Cron
	reminderWindow    time.Duration
	activityRetention time.Duration
	now               func() time.Time
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(reminderWindow, activityRetention time.Duration) *Scheduler {
	return &Scheduler{
		cron:              cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		reminderWindow:    reminderWindow,
		activityRetention: activityRetention,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the jobs and begins scheduling
func (s *Scheduler) Start() error {
	log.Println("Starting scheduler...")

	if _, err := s.cron.AddFunc(reminderSchedule, func() {
		if _, err := s.SendReminders(); err != nil {
			log.Printf("Reminder job failed: %v", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(pruneSchedule, func() {
		if _, err := s.PruneActivity(); err != nil {
			log.Printf("Activity prune job failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()

	log.Printf("Scheduler started with %d jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs, up to stopTimeout.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")

	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(stopTimeout):
		log.Println("Scheduler stop timed out with jobs still running")
	}

	log.Println("Scheduler stopped")
}

// SendReminders writes an event_reminder activity for every participant of
// each event starting within the reminder window. Each event is reminded
// once. It returns the number of events processed.
func (s *Scheduler) SendReminders() (int, error) {
	now := s.now()

	var events []models.Event

	err := db.DB.Preload("Participants").
		Where("event_date > ? AND event_date <= ?", now, now.Add(s.reminderWindow)).
		Where("reminder_sent_at IS NULL").
		Find(&events).Error

	if err != nil {
		return 0, err
	}

	sent := 0

	for _, event := range events {
		err := db.DB.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Event{}).
				Where("id = ? AND reminder_sent_at IS NULL", event.ID).
				Update("reminder_sent_at", now)

			if result.Error != nil {
				return result.Error
			}

			// Another instance got here first.
			if result.RowsAffected == 0 {
				return nil
			}

			if len(event.Participants) == 0 {
				return nil
			}

			eventID := event.ID
			reminders := make([]models.UserActivity, 0, len(event.Participants))

			for _, participant := range event.Participants {
				reminders = append(reminders, models.UserActivity{
					UserID:  participant.UserID,
					Kind:    types.ActivityEventReminder,
					EventID: &eventID,
					Detail:  event.Title,
				})
			}

			return tx.Create(&reminders).Error
		})

		if err != nil {
			log.Printf("Failed to send reminders for event %d: %v", event.ID, err)
			continue
		}

		sent++
	}

	if sent > 0 {
		log.Printf("Sent reminders for %d events", sent)
	}

	return sent, nil
}

// PruneActivity deletes activity older than the retention period. A
// non-positive retention keeps everything.
func (s *Scheduler) PruneActivity() (int64, error) {
	if s.activityRetention <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-s.activityRetention)

	result := db.DB.Where("created_at < ?", cutoff).Delete(&models.UserActivity{})

	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Pruned %d activity entries older than %s", result.RowsAffected, cutoff.Format(time.RFC3339))
	}

	return result.RowsAffected, nil
}
