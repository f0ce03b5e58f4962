package types

import (
	"slices"
	"strings"
)

const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "request_id"
)

// Activity kinds written to the user activity log.
const (
	ActivityRegistered          = "registered"
	ActivityOnboardingCompleted = "onboarding_completed"
	ActivityEventCreated        = "event_created"
	ActivityEventJoined         = "event_joined"
	ActivityEventLeft           = "event_left"
	ActivityEventLiked          = "event_liked"
	ActivityCommentPosted       = "comment_posted"
	ActivityFollowed            = "followed"
	ActivityReviewed            = "reviewed"
	ActivityEventReminder       = "event_reminder"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AllowedOrigins is shared by the CORS middleware and the socket upgrader.
var AllowedOrigins = append([]string(nil), devOrigins...)

// SetAllowedOrigins replaces the list with the dev origins plus extra,
// skipping blanks and duplicates.
func SetAllowedOrigins(extra []string) {
	origins := append([]string(nil), devOrigins...)

	for _, origin := range extra {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" && !slices.Contains(origins, origin) {
			origins = append(origins, origin)
		}
	}

	AllowedOrigins = origins
}

func IsAllowedOrigin(origin string) bool {
	return slices.Contains(AllowedOrigins, origin)
}
